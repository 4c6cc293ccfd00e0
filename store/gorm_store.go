package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pipedesk/models"
)

// GormStore persists loosely-typed JSON records per entity in Postgres and
// publishes change notifications on Redis. Subscribers re-list on every
// notification, so each push carries the complete current collection.
type GormStore struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewGormStore(db *gorm.DB, rdb *redis.Client, logger *logrus.Logger) *GormStore {
	return &GormStore{db: db, rdb: rdb, logger: logger}
}

func changeChannel(entity string) string {
	return "store:changed:" + entity
}

// List returns the decoded records of an entity, oldest first. A row whose
// payload fails to decode is skipped rather than failing the whole list;
// the normalizer downstream tolerates partial records anyway.
func (s *GormStore) List(ctx context.Context, entity string, fields ...string) ([]map[string]any, error) {
	var rows []models.StoreRecord
	if err := s.db.WithContext(ctx).
		Where("entity = ?", entity).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record := map[string]any{}
		if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"entity": entity,
				"record": row.RecordID,
			}).Warn("skipping undecodable record payload")
			continue
		}
		records = append(records, selectFields(record, fields))
	}
	return records, nil
}

// Subscribe delivers the full record set on every remote change, starting
// with an initial snapshot. The channel closes when ctx is done.
func (s *GormStore) Subscribe(ctx context.Context, entity string) (<-chan []map[string]any, error) {
	initial, err := s.List(ctx, entity)
	if err != nil {
		return nil, err
	}

	pubsub := s.rdb.Subscribe(ctx, changeChannel(entity))
	out := make(chan []map[string]any, 1)
	out <- initial

	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				snapshot, err := s.List(ctx, entity)
				if err != nil {
					s.logger.WithError(err).WithField("entity", entity).Error("re-list after change notification failed")
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Insert writes a full new record. The record must carry a string id.
func (s *GormStore) Insert(ctx context.Context, entity string, record map[string]any) error {
	id, _ := record["id"].(string)
	if id == "" {
		return errors.New("record id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", entity, err)
	}

	row := models.StoreRecord{Entity: entity, RecordID: id, Payload: string(payload)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert %s record: %w", entity, err)
	}

	s.notify(ctx, entity, id)
	return nil
}

// Update merges the partial record over the stored payload. Keys absent from
// patch stay untouched, which is what lets updates omit fields an older
// record never had.
func (s *GormStore) Update(ctx context.Context, entity string, id string, patch map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.StoreRecord
		if err := tx.Where("entity = ? AND record_id = ?", entity, id).First(&row).Error; err != nil {
			return err
		}

		merged, err := mergePatch(row.Payload, patch)
		if err != nil {
			return err
		}

		row.Payload = merged
		return tx.Save(&row).Error
	})
	if err != nil {
		return fmt.Errorf("update %s record %s: %w", entity, id, err)
	}

	s.notify(ctx, entity, id)
	return nil
}

// notify is best effort: a missed notification only delays subscribers
// until the next change or explicit refresh.
func (s *GormStore) notify(ctx context.Context, entity, id string) {
	if err := s.rdb.Publish(ctx, changeChannel(entity), id).Err(); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"entity": entity,
			"record": id,
		}).Warn("change notification publish failed")
	}
}

// mergePatch overlays patch keys on the stored JSON payload. Patch values
// are re-encoded through JSON so typed values (history slices and the like)
// land as plain JSON shapes.
func mergePatch(payload string, patch map[string]any) (string, error) {
	record := map[string]any{}
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return "", fmt.Errorf("decode stored payload: %w", err)
	}
	for key, value := range patch {
		record[key] = value
	}
	merged, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode merged payload: %w", err)
	}
	return string(merged), nil
}

func selectFields(record map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return record
	}
	narrowed := make(map[string]any, len(fields))
	for _, field := range fields {
		if value, ok := record[field]; ok {
			narrowed[field] = value
		}
	}
	return narrowed
}
