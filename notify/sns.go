package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"app/homework/models"
)

// Notifier publishes assignment events to an SNS topic. A nil Notifier is a
// no-op, so callers do not need to check whether publishing is configured.
type Notifier struct {
	client   *sns.Client
	topicARN string
}

func New(ctx context.Context, region, topicARN string) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Notifier{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

type assignmentEvent struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

// AssignmentCreated publishes a small JSON payload describing the new
// assignment.
func (n *Notifier) AssignmentCreated(ctx context.Context, a models.Assignment) error {
	if n == nil {
		return nil
	}
	payload, err := json.Marshal(assignmentEvent{ID: a.ID, Title: a.Title, Deadline: a.Deadline})
	if err != nil {
		return err
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
	})
	return err
}
