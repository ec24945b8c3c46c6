package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"eshop-reports-api/pkg/lambda"
)

// handler recomputes the KPI snapshot on a CloudWatch schedule
func handler(ctx context.Context, event events.CloudWatchEvent) (*lambda.RefreshResult, error) {
	start := time.Now()

	container, err := lambda.SharedCache().Container(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := container.ReportService.GenerateSnapshot(ctx)
	if err != nil {
		logrus.WithError(err).Error("Scheduled KPI refresh failed")
		return nil, err
	}

	result := &lambda.RefreshResult{
		SnapshotID:   snapshot.SnapshotID,
		Timestamp:    snapshot.Timestamp,
		TotalOrders:  snapshot.TotalOrders,
		TotalRevenue: snapshot.TotalRevenue,
		DurationMS:   time.Since(start).Milliseconds(),
	}

	logrus.WithFields(logrus.Fields{
		"snapshot_id": result.SnapshotID,
		"duration_ms": result.DurationMS,
		"source":      event.Source,
	}).Info("Scheduled KPI refresh completed")

	return result, nil
}

func main() {
	awslambda.Start(handler)
}
