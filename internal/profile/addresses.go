package profile

import (
	"context"
	"errors"
	"time"

	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

var ErrAddressNotFound = errors.New("address not found")

const hasAddressCacheTTL = 5 * time.Minute

// AddressStore manages delivery addresses in the users keyspace. It also
// implements the submission flow's AddressBook port.
type AddressStore struct{}

func NewAddressStore() *AddressStore {
	return &AddressStore{}
}

func (s *AddressStore) List(ctx context.Context, userID string) ([]models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT address_id, user_id, label, street, village_or_city, district, pincode, is_default
		 FROM addresses WHERE user_id = ? ALLOW FILTERING`, userID,
	).WithContext(ctx).Iter()

	var addresses []models.Address
	var a models.Address
	for iter.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.VillageOrCity, &a.District, &a.Pincode, &a.IsDefault) {
		addresses = append(addresses, a)
		a = models.Address{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *AddressStore) Create(ctx context.Context, a models.Address) (models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.Address{}, err
	}

	a.ID = gocql.UUID(uuid.New())
	err = session.Query(
		`INSERT INTO addresses (address_id, user_id, label, street, village_or_city, district, pincode, is_default)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Label, a.Street, a.VillageOrCity, a.District, a.Pincode, a.IsDefault,
	).WithContext(ctx).Exec()
	if err != nil {
		return models.Address{}, err
	}

	s.invalidateHasAddress(ctx, a.UserID)
	return a, nil
}

func (s *AddressStore) Update(ctx context.Context, a models.Address) error {
	if _, err := s.get(ctx, a.UserID, a.ID); err != nil {
		return err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	return session.Query(
		`UPDATE addresses SET label = ?, street = ?, village_or_city = ?, district = ?, pincode = ?, is_default = ?
		 WHERE address_id = ?`,
		a.Label, a.Street, a.VillageOrCity, a.District, a.Pincode, a.IsDefault, a.ID,
	).WithContext(ctx).Exec()
}

func (s *AddressStore) Delete(ctx context.Context, userID string, addressID gocql.UUID) error {
	if _, err := s.get(ctx, userID, addressID); err != nil {
		return err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM addresses WHERE address_id = ?`, addressID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	s.invalidateHasAddress(ctx, userID)
	return nil
}

// SetDefault flags one address as the default and clears the flag elsewhere.
func (s *AddressStore) SetDefault(ctx context.Context, userID string, addressID gocql.UUID) error {
	addresses, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	found := false
	for _, a := range addresses {
		isTarget := a.ID == addressID
		if isTarget {
			found = true
		}
		if a.IsDefault != isTarget {
			if err := session.Query(`UPDATE addresses SET is_default = ? WHERE address_id = ?`,
				isTarget, a.ID).WithContext(ctx).Exec(); err != nil {
				return err
			}
		}
	}
	if !found {
		return ErrAddressNotFound
	}
	return nil
}

func (s *AddressStore) get(ctx context.Context, userID string, addressID gocql.UUID) (models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.Address{}, err
	}

	var a models.Address
	err = session.Query(
		`SELECT address_id, user_id, label, street, village_or_city, district, pincode, is_default
		 FROM addresses WHERE address_id = ?`, addressID,
	).WithContext(ctx).Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.VillageOrCity, &a.District, &a.Pincode, &a.IsDefault)
	if err == gocql.ErrNotFound {
		return models.Address{}, ErrAddressNotFound
	}
	if err != nil {
		return models.Address{}, err
	}
	if a.UserID != userID {
		return models.Address{}, ErrAddressNotFound
	}
	return a, nil
}

// HasAddress answers the submission precondition, with a short Redis cache so
// every submit does not hit Scylla.
func (s *AddressStore) HasAddress(ctx context.Context, userID string) (bool, error) {
	key := "has_address:" + userID
	if cached, err := database.Redis.Get(ctx, key).Result(); err == nil {
		return cached == "1", nil
	}

	addresses, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}

	val := "0"
	if len(addresses) > 0 {
		val = "1"
	}
	database.Redis.Set(ctx, key, val, hasAddressCacheTTL)
	return val == "1", nil
}

func (s *AddressStore) invalidateHasAddress(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "has_address:"+userID)
}
