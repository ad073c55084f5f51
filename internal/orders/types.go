// Package orders serves customer orders: list, create, read, update and
// delete, with status guards on update and delete.
package orders

// Status is the lifecycle stage of an order.
type Status string

// Order statuses
const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// LineItem is one dish of an order.
type LineItem struct {
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

// Order is a customer order.
type Order struct {
	ID           string     `json:"id"`
	DeliverTo    string     `json:"deliverTo"`
	MobileNumber string     `json:"mobileNumber"`
	Status       Status     `json:"status"`
	Dishes       []LineItem `json:"dishes"`
}

// Key returns the order id; it is the store key func.
func Key(o Order) string { return o.ID }

// Seed returns the orders loaded at startup.
func Seed() []Order {
	return []Order{
		{
			ID:           "f6069a542257054114138301947672ba",
			DeliverTo:    "1600 Pennsylvania Avenue NW, Washington, DC 20500",
			MobileNumber: "(202) 456-1111",
			Status:       StatusOutForDelivery,
			Dishes: []LineItem{
				{DishID: "90c3d873684bf381dfab29034b5bba73", Quantity: 2},
			},
		},
		{
			ID:           "5a887d326e83d3c5bdcbee398ea32aff",
			DeliverTo:    "308 Negra Arroyo Lane, Albuquerque, NM",
			MobileNumber: "(505) 143-3369",
			Status:       StatusDelivered,
			Dishes: []LineItem{
				{DishID: "d351db2b49b69679504652ea1cf38241", Quantity: 1},
			},
		},
		{
			ID:           "a1b2c3d4e5f60718293a4b5c6d7e8f90",
			DeliverTo:    "221B Baker Street, London",
			MobileNumber: "(020) 7224-3688",
			Status:       StatusPending,
			Dishes: []LineItem{
				{DishID: "3c637d011d844ebab1205fef8a7e36ea", Quantity: 1},
				{DishID: "f8a1cc7b9b3a4f8e8f6a1c2d3e4b5a69", Quantity: 3},
			},
		},
		{
			ID:           "0e1f2a3b4c5d6e7f8091a2b3c4d5e6f7",
			DeliverTo:    "742 Evergreen Terrace, Springfield",
			MobileNumber: "(939) 555-0113",
			Status:       StatusPreparing,
			Dishes: []LineItem{
				{DishID: "d351db2b49b69679504652ea1cf38241", Quantity: 4},
			},
		},
	}
}
