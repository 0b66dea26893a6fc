package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/helmcode/inr-assistant/pkg/model"
)

const createdAtField = "createdAt"

// FirestoreStore is the hosted backend: one document per user in each of
// the users and inrData collections.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) ListUsers(ctx context.Context) ([]model.UserRecord, error) {
	docs, err := s.client.Collection(model.UsersCollection).
		OrderBy(createdAtField, firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, storageErr(OpList, model.UsersCollection, "", err)
	}

	users := make([]model.UserRecord, 0, len(docs))
	for _, doc := range docs {
		var u model.UserRecord
		if err := doc.DataTo(&u); err != nil {
			return nil, storageErr(OpList, model.UsersCollection, doc.Ref.ID, err)
		}
		u.ID = doc.Ref.ID
		users = append(users, u)
	}
	return users, nil
}

func (s *FirestoreStore) EnsureUser(ctx context.Context, u model.UserRecord) error {
	_, err := s.client.Collection(model.UsersCollection).Doc(u.ID).Create(ctx, u)
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	return storageErr(OpCreate, model.UsersCollection, u.ID, err)
}

// DeleteUser commits both deletions in one batch so neither document
// outlives the other.
func (s *FirestoreStore) DeleteUser(ctx context.Context, id string) error {
	batch := s.client.Batch()
	batch.Delete(s.client.Collection(model.UsersCollection).Doc(id))
	batch.Delete(s.client.Collection(model.INRDataCollection).Doc(id))
	_, err := batch.Commit(ctx)
	return storageErr(OpDelete, model.UsersCollection, id, err)
}

func (s *FirestoreStore) LoadINRData(ctx context.Context, id string) (*model.INRData, error) {
	snap, err := s.client.Collection(model.INRDataCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return emptyINRData(), nil
	}
	if err != nil {
		return nil, storageErr(OpLoad, model.INRDataCollection, id, err)
	}

	d := emptyINRData()
	if err := snap.DataTo(d); err != nil {
		return nil, storageErr(OpLoad, model.INRDataCollection, id, fmt.Errorf("decode document: %w", err))
	}
	if d.Measurements == nil {
		d.Measurements = []model.Measurement{}
	}
	return d, nil
}

func (s *FirestoreStore) SaveINRData(ctx context.Context, id string, d *model.INRData) error {
	_, err := s.client.Collection(model.INRDataCollection).Doc(id).Set(ctx, d)
	return storageErr(OpSave, model.INRDataCollection, id, err)
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
