// Package stream provides DynamoDB Streams handlers for cascade
// operations on the dynamostore node table.
//
// dynamostore deletes are soft: a ttl attribute marks the node deleted
// and a cascade attribute records the policy. This handler consumes the
// table's stream and applies the recorded policy to the node's
// children: destroy propagates the TTL (re-triggering the cascade per
// child), nullify promotes the children to roots.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/thoughtafter/acts-as-happy-tree/dynamostore"
)

// Handler processes DynamoDB stream events for cascade deletes.
type Handler struct {
	store  *dynamostore.Store
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(s *dynamostore.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// HandleCascadeDelete processes DynamoDB stream events to apply the
// recorded cascade policy to children of deleted nodes. This function
// is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleCascadeDelete(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	// Only process MODIFY events where TTL was added
	if record.EventName != "MODIFY" {
		return nil
	}

	oldTTL := getNumberAttr(record.Change.OldImage, "ttl")
	newTTL := getNumberAttr(record.Change.NewImage, "ttl")

	// Only process when TTL is newly set (was absent/0, now present)
	if oldTTL != 0 || newTTL == 0 {
		return nil
	}

	nodeID := getStringAttr(record.Change.NewImage, "id")
	cascade := getStringAttr(record.Change.NewImage, "cascade")

	switch cascade {
	case "destroy":
		return h.destroyChildren(ctx, nodeID, newTTL)
	case "nullify":
		return h.nullifyChildren(ctx, nodeID)
	default:
		// none/restrict: children are left untouched
		return nil
	}
}

// destroyChildren propagates the TTL to all children. Each child's own
// MODIFY event re-enters this handler, walking the subtree level by
// level. Already-deleted children are included so retries stay
// idempotent.
func (h *Handler) destroyChildren(ctx context.Context, nodeID string, ttl int64) error {
	children, err := h.store.ChildIDs(ctx, nodeID, true)
	if err != nil {
		return fmt.Errorf("query children: %w", err)
	}

	h.logger.Info("propagating destroy cascade",
		"node", nodeID,
		"childCount", len(children),
		"ttl", ttl,
	)

	for _, child := range children {
		if err := h.store.SetTTLByID(ctx, child, ttl, "destroy"); err != nil {
			h.logger.Warn("failed to set TTL on child",
				"child", child,
				"error", err,
			)
			// Continue - idempotent, will retry
		}
	}

	h.logger.Info("destroy cascade completed",
		"node", nodeID,
		"childrenProcessed", len(children),
	)
	return nil
}

// nullifyChildren clears the parent reference of all active children,
// promoting them to roots.
func (h *Handler) nullifyChildren(ctx context.Context, nodeID string) error {
	children, err := h.store.ChildIDs(ctx, nodeID, false)
	if err != nil {
		return fmt.Errorf("query children: %w", err)
	}

	h.logger.Info("propagating nullify cascade",
		"node", nodeID,
		"childCount", len(children),
	)

	for _, child := range children {
		if err := h.store.ClearParent(ctx, child); err != nil {
			h.logger.Warn("failed to clear parent on child",
				"child", child,
				"error", err,
			)
		}
	}

	h.logger.Info("nullify cascade completed",
		"node", nodeID,
		"childrenProcessed", len(children),
	)
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		return v.String()
	}
	return ""
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}
