package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/firehose/types"
	"go.uber.org/zap"
)

// FirehoseAPI is the subset of the Firehose client used by FirehosePublisher.
type FirehoseAPI interface {
	PutRecord(ctx context.Context, params *firehose.PutRecordInput, optFns ...func(*firehose.Options)) (*firehose.PutRecordOutput, error)
}

// FirehosePublisher puts records to a single Firehose delivery stream.
type FirehosePublisher struct {
	client     FirehoseAPI
	streamName string
	log        *zap.SugaredLogger
}

var ErrEmptyStreamName = errors.New("delivery stream name is required")

func NewFirehosePublisher(client FirehoseAPI, streamName string, log *zap.SugaredLogger) (*FirehosePublisher, error) {
	if streamName == "" {
		return nil, ErrEmptyStreamName
	}
	return &FirehosePublisher{
		client:     client,
		streamName: streamName,
		log:        log,
	}, nil
}

func (p *FirehosePublisher) Put(ctx context.Context, record Record) (*Result, error) {
	out, err := p.client.PutRecord(ctx, &firehose.PutRecordInput{
		DeliveryStreamName: aws.String(p.streamName),
		Record:             &types.Record{Data: record.Data},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put record to %s: %w", p.streamName, err)
	}

	res := &Result{
		RecordID:  aws.ToString(out.RecordId),
		Encrypted: aws.ToBool(out.Encrypted),
	}
	p.log.Debugw("record put",
		"deliveryStream", p.streamName,
		"recordID", res.RecordID,
		"bytes", len(record.Data),
	)
	return res, nil
}
