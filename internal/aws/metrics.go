package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/smithy-go"
)

// Metrics publishes counters to a CloudWatch namespace.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns Metrics writing under namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: client,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// PutCounts writes one Count datum per entry of counts, keyed by the value
// of the dimension named dimension.
func (m *Metrics) PutCounts(ctx context.Context, metricName, dimension string, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	now := m.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for value, n := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: awsString(metricName),
			Dimensions: []cwtypes.Dimension{
				{Name: awsString(dimension), Value: awsString(value)},
			},
			Timestamp: &now,
			Unit:      cwtypes.StandardUnitCount,
			Value:     float64Ptr(float64(n)),
		})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(m.Namespace),
		MetricData: data,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("put metric data: %s: %w", apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func float64Ptr(f float64) *float64 { return &f }
