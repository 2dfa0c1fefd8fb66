package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error) {
	args := m.Called(*topic)
	if v := args.Get(0); v != nil {
		return v.(*kafka.Metadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdmin) CreateTopics(ctx context.Context, topics []kafka.TopicSpecification, _ ...kafka.CreateTopicsAdminOption) ([]kafka.TopicResult, error) {
	args := m.Called(topics)
	if v := args.Get(0); v != nil {
		return v.([]kafka.TopicResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdmin) CreatePartitions(ctx context.Context, partitions []kafka.PartitionsSpecification, _ ...kafka.CreatePartitionsAdminOption) ([]kafka.TopicResult, error) {
	args := m.Called(partitions)
	if v := args.Get(0); v != nil {
		return v.([]kafka.TopicResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func topicWithPartitions(name string, partitions, replicas int) *kafka.Metadata {
	tm := kafka.TopicMetadata{Topic: name}
	for i := 0; i < partitions; i++ {
		tm.Partitions = append(tm.Partitions, kafka.PartitionMetadata{
			ID:       int32(i),
			Replicas: make([]int32, replicas),
		})
	}
	return &kafka.Metadata{Topics: map[string]kafka.TopicMetadata{name: tm}}
}

func TestTopicConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  TopicConfig
		wantErr string
	}{
		{name: "valid", config: TopicConfig{Name: "files", NumPartitions: 1, ReplicationFactor: 1}},
		{name: "empty name", config: TopicConfig{NumPartitions: 1, ReplicationFactor: 1}, wantErr: "kafka topic is required"},
		{name: "zero partitions", config: TopicConfig{Name: "files", ReplicationFactor: 1}, wantErr: "number of partitions must be > 0, got 0"},
		{name: "negative replication", config: TopicConfig{Name: "files", NumPartitions: 1, ReplicationFactor: -1}, wantErr: "replication factor must be > 0, got -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestEnsureTopic_CreatesMissingTopic(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(&kafka.Metadata{Topics: map[string]kafka.TopicMetadata{}}, nil)
	admin.On("CreateTopics", []kafka.TopicSpecification{{Topic: "files", NumPartitions: 3, ReplicationFactor: 1}}).
		Return([]kafka.TopicResult{{Topic: "files", Error: kafka.NewError(kafka.ErrNoError, "", false)}}, nil)

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 3, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	admin.AssertExpectations(t)
}

func TestEnsureTopic_AlreadyExistsRace(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(&kafka.Metadata{Topics: map[string]kafka.TopicMetadata{}}, nil)
	admin.On("CreateTopics", mock.Anything).
		Return([]kafka.TopicResult{{Topic: "files", Error: kafka.NewError(kafka.ErrTopicAlreadyExists, "exists", false)}}, nil)

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 1, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
}

func TestEnsureTopic_CreateFails(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(&kafka.Metadata{Topics: map[string]kafka.TopicMetadata{}}, nil)
	admin.On("CreateTopics", mock.Anything).
		Return([]kafka.TopicResult{{Topic: "files", Error: kafka.NewError(kafka.ErrPolicyViolation, "denied", false)}}, nil)

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 1, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.ErrorContains(t, err, `failed to create topic "files"`)
}

func TestEnsureTopic_IncreasesPartitions(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(topicWithPartitions("files", 1, 1), nil)
	admin.On("CreatePartitions", []kafka.PartitionsSpecification{{Topic: "files", IncreaseTo: 4}}).
		Return([]kafka.TopicResult{{Topic: "files", Error: kafka.NewError(kafka.ErrNoError, "", false)}}, nil)

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 4, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	admin.AssertExpectations(t)
}

func TestEnsureTopic_ExistingTopicLeftAlone(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(topicWithPartitions("files", 6, 3), nil)

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 2, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	admin.AssertNotCalled(t, "CreateTopics", mock.Anything)
	admin.AssertNotCalled(t, "CreatePartitions", mock.Anything)
}

func TestEnsureTopic_MetadataError(t *testing.T) {
	admin := &mockAdmin{}
	admin.On("GetMetadata", "files").Return(nil, errors.New("all brokers down"))

	err := EnsureTopic(context.Background(), admin, TopicConfig{Name: "files", NumPartitions: 1, ReplicationFactor: 1}, zaptest.NewLogger(t).Sugar())
	require.ErrorContains(t, err, "all brokers down")
}

func TestEnsureTopic_InvalidConfig(t *testing.T) {
	err := EnsureTopic(context.Background(), &mockAdmin{}, TopicConfig{Name: "files"}, zaptest.NewLogger(t).Sugar())
	require.ErrorContains(t, err, "invalid topic config")
}
