package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/thoughtafter/acts-as-happy-tree/internal/shard"
	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// Store is a DynamoDB-backed tree.Store.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

func (s *Store) observe(op string) {
	if s.config.Observer != nil {
		s.config.Observer.QueryIssued(op)
	}
}

// parentPK computes the sharded parent-index partition key for a node.
func (s *Store) parentPK(parentID, nodeID string) string {
	ref := parentID
	if ref == "" {
		ref = rootRef
	}
	return shard.ParentPK(ref, nodeID, s.config.NumShards)
}

// FindByID retrieves a node by id, returning tree.ErrNotFound if
// deleted or missing.
func (s *Store) FindByID(ctx context.Context, id string) (*Node, error) {
	s.observe("get_item")
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       nodeKey(id),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return nil, tree.ErrNotFound
	}
	return unmarshalNode(result.Item), nil
}

// FindParentID retrieves only the parent reference of a node, without
// materializing the full item.
func (s *Store) FindParentID(ctx context.Context, id string) (string, bool, error) {
	s.observe("get_item_projection")
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.config.TableName),
		Key:                      nodeKey(id),
		ProjectionExpression:     aws.String("#pid, #ttl"),
		ExpressionAttributeNames: map[string]string{"#pid": attrParentID, "#ttl": attrTTL},
	})
	if err != nil {
		return "", false, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return "", false, tree.ErrNotFound
	}
	if v, ok := result.Item[attrParentID].(*types.AttributeValueMemberS); ok {
		return v.Value, true, nil
	}
	return "", false, nil
}

// FindByParentIDs returns all active children of the given parents,
// honoring the query's order, limit, and conditions.
func (s *Store) FindByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]*Node, error) {
	s.observe("query_children")
	return s.queryChildren(ctx, parents, q, "")
}

// FindIDsByParentIDs is the id-projection variant of FindByParentIDs.
func (s *Store) FindIDsByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]string, error) {
	s.observe("query_children_ids")
	nodes, err := s.queryChildren(ctx, parents, q, "#id, #pos")
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids, nil
}

// FindRoots returns all active nodes with no parent reference.
func (s *Store) FindRoots(ctx context.Context, q tree.Query) ([]*Node, error) {
	s.observe("query_roots")
	return s.queryChildren(ctx, []string{""}, q, "")
}

// queryChildren queries the parent index for every parent across every
// shard, then applies order and limit to the merged result. The limit
// covers the call as a whole, not each shard query.
func (s *Store) queryChildren(ctx context.Context, parents []string, q tree.Query, projection string) ([]*Node, error) {
	filter, err := buildFilter(q.Conditions)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	filterText := ttlFilterExpr()
	if filter.Expr != "" {
		filterText = fmt.Sprintf("(%s) AND (%s)", filter.Expr, filterText)
	}
	exprNames := mergeExprNames(ttlFilterNames(), filter.Names)
	exprValues := mergeExprValues(ttlFilterValues(now), filter.Values)

	var out []*Node
	for _, parent := range parents {
		ref := parent
		if ref == "" {
			ref = rootRef
		}
		for _, pk := range shard.AllPKs(ref, s.config.NumShards) {
			input := &dynamodb.QueryInput{
				TableName:                aws.String(s.config.TableName),
				IndexName:                aws.String(s.config.ParentIndex),
				KeyConditionExpression:   aws.String("#ppk = :ppk"),
				FilterExpression:         aws.String(filterText),
				ExpressionAttributeNames: mergeExprNames(exprNames, map[string]string{"#ppk": attrParentPK}),
				ExpressionAttributeValues: mergeExprValues(exprValues, map[string]types.AttributeValue{
					":ppk": &types.AttributeValueMemberS{Value: pk},
				}),
			}
			// Names must be referenced by some expression or DynamoDB
			// rejects the request, so the projection placeholders join
			// the map only when a projection expression uses them.
			if projection != "" {
				input.ProjectionExpression = aws.String(projection)
				input.ExpressionAttributeNames["#id"] = attrID
				input.ExpressionAttributeNames["#pos"] = attrPosition
			}
			if forward, native := nativeOrder(q.Order); native {
				input.ScanIndexForward = aws.Bool(forward)
			}

			paginator := dynamodb.NewQueryPaginator(s.client, input)
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return nil, err
				}
				for _, raw := range page.Items {
					out = append(out, unmarshalNode(raw))
				}
			}
		}
	}

	if err := sortNodes(out, q.Order); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// CountByParentIDs counts active children of the given parents matching
// all conditions, using COUNT queries with no item materialization.
func (s *Store) CountByParentIDs(ctx context.Context, parents []string, conds []tree.Condition) (int, error) {
	s.observe("count_children")
	filter, err := buildFilter(conds)
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	filterText := ttlFilterExpr()
	if filter.Expr != "" {
		filterText = fmt.Sprintf("(%s) AND (%s)", filter.Expr, filterText)
	}

	total := 0
	for _, parent := range parents {
		ref := parent
		if ref == "" {
			ref = rootRef
		}
		for _, pk := range shard.AllPKs(ref, s.config.NumShards) {
			input := &dynamodb.QueryInput{
				TableName:              aws.String(s.config.TableName),
				IndexName:              aws.String(s.config.ParentIndex),
				KeyConditionExpression: aws.String("#ppk = :ppk"),
				FilterExpression:       aws.String(filterText),
				Select:                 types.SelectCount,
				ExpressionAttributeNames: mergeExprNames(ttlFilterNames(), filter.Names,
					map[string]string{"#ppk": attrParentPK}),
				ExpressionAttributeValues: mergeExprValues(ttlFilterValues(now), filter.Values,
					map[string]types.AttributeValue{
						":ppk": &types.AttributeValueMemberS{Value: pk},
					}),
			}

			paginator := dynamodb.NewQueryPaginator(s.client, input)
			for paginator.HasMorePages() {
				page, err := paginator.NextPage(ctx)
				if err != nil {
					return 0, err
				}
				total += int(page.Count)
			}
		}
	}
	return total, nil
}

// Insert creates a node with parent validation in one transaction. The
// store assigns the id, position, version, and timestamps.
func (s *Store) Insert(ctx context.Context, fields tree.Fields) (*Node, error) {
	s.observe("transact_write")
	now := time.Now()
	nowISO := now.UTC().Format(time.RFC3339)

	parentID := ""
	if raw, ok := fields[attrParentID]; ok && raw != nil {
		pid, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("dynamostore: parent reference: unexpected type %T", raw)
		}
		parentID = pid
	}

	attrs := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == attrParentID || v == nil {
			continue
		}
		attrs[k] = v
	}
	item, err := attributevalue.MarshalMap(attrs)
	if err != nil {
		return nil, fmt.Errorf("dynamostore: marshal fields: %w", err)
	}

	id := uuid.NewString()
	item[attrID] = &types.AttributeValueMemberS{Value: id}
	item[attrParentPK] = &types.AttributeValueMemberS{Value: s.parentPK(parentID, id)}
	item[attrPosition] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixNano(), 10)}
	item[attrVersion] = &types.AttributeValueMemberN{Value: "1"}
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: nowISO}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: nowISO}
	if parentID != "" {
		item[attrParentID] = &types.AttributeValueMemberS{Value: parentID}
	}

	items := []types.TransactWriteItem{}
	parentCheckIndex := -1
	if parentID != "" {
		parentCheckIndex = len(items)
		items = append(items, types.TransactWriteItem{
			ConditionCheck: &types.ConditionCheck{
				TableName:                aws.String(s.config.TableName),
				Key:                      nodeKey(parentID),
				ConditionExpression:      aws.String(parentExistsCondition()),
				ExpressionAttributeNames: ttlFilterNames(),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":now": &types.AttributeValueMemberN{
						Value: strconv.FormatInt(now.Unix(), 10),
					},
				},
			},
		})
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.config.TableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	})

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err := s.mapCreateTransactionError(err, parentCheckIndex); err != nil {
		return nil, err
	}

	return unmarshalNode(item), nil
}

// Update rewrites the named fields of an existing node and returns the
// updated node. A parent change also rewrites the parent index key.
func (s *Store) Update(ctx context.Context, id string, fields tree.Fields) (*Node, error) {
	s.observe("update_item")
	now := time.Now().UTC().Format(time.RFC3339)

	var setClauses []string
	var removeClauses []string
	exprNames := map[string]string{
		"#updated_at": attrUpdatedAt,
		"#version":    attrVersion,
		"#ttl":        attrTTL,
	}
	exprValues := map[string]types.AttributeValue{
		":updated_at": &types.AttributeValueMemberS{Value: now},
		":one":        &types.AttributeValueMemberN{Value: "1"},
	}

	i := 0
	for k, v := range fields {
		if k == attrParentID {
			exprNames["#pid"] = attrParentID
			exprNames["#ppk"] = attrParentPK
			if v == nil {
				removeClauses = append(removeClauses, "#pid")
				exprValues[":ppk"] = &types.AttributeValueMemberS{Value: s.parentPK("", id)}
			} else {
				pid, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("dynamostore: parent reference: unexpected type %T", v)
				}
				exprValues[":pid"] = &types.AttributeValueMemberS{Value: pid}
				exprValues[":ppk"] = &types.AttributeValueMemberS{Value: s.parentPK(pid, id)}
				setClauses = append(setClauses, "#pid = :pid")
			}
			setClauses = append(setClauses, "#ppk = :ppk")
			continue
		}
		// Skip managed fields
		if k == attrID || k == attrParentPK || k == attrPosition || k == attrVersion ||
			k == attrCreatedAt || k == attrUpdatedAt || k == attrTTL || k == attrCascade {
			continue
		}
		nameKey := fmt.Sprintf("#attr%d", i)
		exprNames[nameKey] = k
		if v == nil {
			removeClauses = append(removeClauses, nameKey)
		} else {
			valueKey := fmt.Sprintf(":val%d", i)
			value, err := attributevalue.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("dynamostore: marshal field %q: %w", k, err)
			}
			exprValues[valueKey] = value
			setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		}
		i++
	}

	setClauses = append(setClauses, "#updated_at = :updated_at", "#version = #version + :one")
	updateExpr := "SET " + joinStrings(setClauses, ", ")
	if len(removeClauses) > 0 {
		updateExpr += " REMOVE " + joinStrings(removeClauses, ", ")
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       nodeKey(id),
		UpdateExpression:          aws.String(updateExpr),
		ConditionExpression:       aws.String("attribute_exists(id) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, tree.ErrNotFound
		}
		return nil, err
	}
	return unmarshalNode(result.Attributes), nil
}

// Delete marks a node deleted by setting its TTL and records the
// cascade policy for the stream handler to apply to children. Under
// CascadeRestrict the delete fails while active children exist.
func (s *Store) Delete(ctx context.Context, id string, policy tree.CascadePolicy) error {
	if policy == tree.CascadeRestrict {
		hasChildren, err := s.HasActiveChildren(ctx, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return tree.ErrHasChildren
		}
	}
	return s.SetTTLByID(ctx, id, time.Now().Unix(), policy.String())
}

// SetTTLByID marks a node deleted by setting its TTL. The cascade
// attribute tells the stream handler how to treat the node's children.
// Already-deleted nodes are left as-is, keeping the cascade idempotent.
func (s *Store) SetTTLByID(ctx context.Context, id string, ttl int64, cascade string) error {
	s.observe("update_item")
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.TableName),
		Key:                 nodeKey(id),
		UpdateExpression:    aws.String("SET #ttl = :ttl, #cascade = :cascade, #version = #version + :one"),
		ConditionExpression: aws.String("attribute_exists(id) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: map[string]string{
			"#ttl":     attrTTL,
			"#cascade": attrCascade,
			"#version": attrVersion,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ttl":     &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)},
			":cascade": &types.AttributeValueMemberS{Value: cascade},
			":one":     &types.AttributeValueMemberN{Value: "1"},
		},
	})

	// Ignore condition failure - missing or already deleted
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	return err
}

// ClearParent promotes a node to a root, rewriting its parent index
// key. Used by the stream handler for nullify cascades.
func (s *Store) ClearParent(ctx context.Context, id string) error {
	s.observe("update_item")
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.TableName),
		Key:                 nodeKey(id),
		UpdateExpression:    aws.String("SET #ppk = :ppk, #version = #version + :one REMOVE #pid"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#ppk":     attrParentPK,
			"#pid":     attrParentID,
			"#version": attrVersion,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ppk": &types.AttributeValueMemberS{Value: s.parentPK("", id)},
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	return err
}

// IncrementCounter atomically adds one to a numeric counter attribute.
func (s *Store) IncrementCounter(ctx context.Context, id string, field string) error {
	return s.addCounter(ctx, id, field, 1)
}

// DecrementCounter atomically subtracts one from a numeric counter
// attribute.
func (s *Store) DecrementCounter(ctx context.Context, id string, field string) error {
	return s.addCounter(ctx, id, field, -1)
}

func (s *Store) addCounter(ctx context.Context, id, field string, delta int64) error {
	s.observe("update_item")
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.config.TableName),
		Key:                      nodeKey(id),
		UpdateExpression:         aws.String("ADD #counter :delta"),
		ConditionExpression:      aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{"#counter": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return tree.ErrNotFound
		}
		return err
	}
	return nil
}

// HasActiveChildren checks if a node has any active (non-deleted)
// children, probing every shard with Limit 1 and cancelling the rest as
// soon as one shard finds a child.
func (s *Store) HasActiveChildren(ctx context.Context, id string) (bool, error) {
	now := time.Now().Unix()
	numShards := s.config.NumShards

	// Fast path for single shard (default)
	if numShards <= 1 {
		return s.hasActiveChildrenShard(ctx, shard.ParentPK(id, "", 1), now)
	}

	// Multi-shard fan-out with early cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan bool, 1)
	errs := make(chan error, numShards)
	var wg sync.WaitGroup

	for _, pk := range shard.AllPKs(id, numShards) {
		wg.Add(1)
		go func(pk string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			default:
			}

			has, err := s.hasActiveChildrenShard(ctx, pk, now)
			if err != nil {
				errs <- err
				return
			}
			if has {
				select {
				case found <- true:
					cancel()
				default:
				}
			}
		}(pk)
	}

	go func() {
		wg.Wait()
		close(found)
		close(errs)
	}()

	select {
	case _, ok := <-found:
		if ok {
			return true, nil
		}
	case err := <-errs:
		if err != nil {
			return false, err
		}
	}

	for err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return false, err
		}
	}

	return false, nil
}

func (s *Store) hasActiveChildrenShard(ctx context.Context, pk string, now int64) (bool, error) {
	s.observe("query_children")
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(s.config.TableName),
		IndexName:                aws.String(s.config.ParentIndex),
		KeyConditionExpression:   aws.String("#ppk = :ppk"),
		FilterExpression:         aws.String(ttlFilterExpr()),
		ExpressionAttributeNames: mergeExprNames(ttlFilterNames(), map[string]string{"#ppk": attrParentPK}),
		ExpressionAttributeValues: mergeExprValues(ttlFilterValues(now), map[string]types.AttributeValue{
			":ppk": &types.AttributeValueMemberS{Value: pk},
		}),
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(result.Items) > 0, nil
}

// ChildIDs returns the ids of all children of a parent, optionally
// including already-deleted ones. Cascade propagation includes deleted
// children so retries stay idempotent.
func (s *Store) ChildIDs(ctx context.Context, parentID string, includeDeleted bool) ([]string, error) {
	s.observe("query_children_ids")
	now := time.Now().Unix()

	var ids []string
	for _, pk := range shard.AllPKs(parentID, s.config.NumShards) {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(s.config.TableName),
			IndexName:              aws.String(s.config.ParentIndex),
			KeyConditionExpression: aws.String("#ppk = :ppk"),
			ProjectionExpression:   aws.String("#id"),
			ExpressionAttributeNames: map[string]string{
				"#ppk": attrParentPK,
				"#id":  attrID,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":ppk": &types.AttributeValueMemberS{Value: pk},
			},
		}
		if !includeDeleted {
			input.FilterExpression = aws.String(ttlFilterExpr())
			input.ExpressionAttributeNames["#ttl"] = attrTTL
			input.ExpressionAttributeValues[":now"] = &types.AttributeValueMemberN{
				Value: strconv.FormatInt(now, 10),
			}
		}

		paginator := dynamodb.NewQueryPaginator(s.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, item := range page.Items {
				if v, ok := item[attrID].(*types.AttributeValueMemberS); ok {
					ids = append(ids, v.Value)
				}
			}
		}
	}
	return ids, nil
}

// mapCreateTransactionError maps DynamoDB transaction errors for Insert.
// parentCheckIndex is the index of the parent check item (-1 if none).
func (s *Store) mapCreateTransactionError(err error, parentCheckIndex int) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				if i == parentCheckIndex {
					return tree.ErrParentNotFound
				}
				return tree.ErrAlreadyExists
			}
		}
	}

	return err
}

// nodeKey builds the primary key for a node id.
func nodeKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: id},
	}
}

// nativeOrder reports whether the order can be served by the index sort
// key, returning the scan direction when it can.
func nativeOrder(orders []tree.Order) (forward bool, native bool) {
	if len(orders) == 1 && orders[0].Field == attrPosition {
		return !orders[0].Desc, true
	}
	return false, false
}

// sortNodes orders merged shard results client-side. Position and the
// extracted managed fields sort on their typed values; everything else
// sorts on the raw attribute. An order naming an attribute absent from
// every item is rejected rather than silently ignored.
func sortNodes(nodes []*Node, orders []tree.Order) error {
	if len(nodes) == 0 {
		return nil
	}
	if len(orders) == 0 {
		orders = []tree.Order{{Field: attrPosition}}
	}

	for _, o := range orders {
		if o.Field == attrPosition || o.Field == attrID {
			continue
		}
		present := false
		for _, n := range nodes {
			if _, ok := n.Raw[o.Field]; ok {
				present = true
				break
			}
		}
		if !present {
			return fmt.Errorf("dynamostore: order by unknown attribute %q", o.Field)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		for _, o := range orders {
			cmp := compareNodes(nodes[i], nodes[j], o.Field)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return nil
}

func compareNodes(a, b *Node, field string) int {
	switch field {
	case attrPosition:
		return compareInt64(a.Position, b.Position)
	case attrID:
		return compareStrings(a.ID, b.ID)
	}

	av, aok := a.Raw[field]
	bv, bok := b.Raw[field]
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	if an, ok := av.(*types.AttributeValueMemberN); ok {
		if bn, ok := bv.(*types.AttributeValueMemberN); ok {
			af, _ := strconv.ParseFloat(an.Value, 64)
			bf, _ := strconv.ParseFloat(bn.Value, 64)
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if as, ok := av.(*types.AttributeValueMemberS); ok {
		if bs, ok := bv.(*types.AttributeValueMemberS); ok {
			return compareStrings(as.Value, bs.Value)
		}
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
