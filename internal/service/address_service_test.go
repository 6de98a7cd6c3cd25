package service_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

func addressReq(line string) domain.AddressRequest {
	return domain.AddressRequest{
		AddressLine1: line,
		City:         "Seoul",
		State:        "Seoul",
		ZipCode:      "123456",
	}
}

func defaultCount(list []domain.Address) int {
	n := 0
	for _, a := range list {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddAddress_FirstBecomesDefault(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	list, err := e.addresses.AddAddress(ctx, "u1", addressReq("1 First St"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)

	list, err = e.addresses.AddAddress(ctx, "u1", addressReq("2 Second St"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
}

func TestAddAddress_Validation(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	for _, zip := range []string{"12345", "1234567", "12a456", ""} {
		req := addressReq("1 First St")
		req.ZipCode = zip
		_, err := e.addresses.AddAddress(ctx, "u1", req)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), "zip %q should be rejected", zip)
		assert.Equal(t, "zip_code", ve.Field)
	}

	req := addressReq("   ")
	_, err := e.addresses.AddAddress(ctx, "u1", req)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "address_line_1", ve.Field)

	list, err := e.addresses.ListAddresses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateAddress_MovesDefault(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	_, err := e.addresses.AddAddress(ctx, "u1", addressReq("1 First St"))
	require.NoError(t, err)
	list, err := e.addresses.AddAddress(ctx, "u1", addressReq("2 Second St"))
	require.NoError(t, err)

	yes := true
	list, err = e.addresses.UpdateAddress(ctx, "u1", list[1].ID, domain.UpdateAddressRequest{IsDefault: &yes})
	require.NoError(t, err)
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)

	// clearing the only default is ignored
	no := false
	list, err = e.addresses.UpdateAddress(ctx, "u1", list[1].ID, domain.UpdateAddressRequest{IsDefault: &no})
	require.NoError(t, err)
	assert.Equal(t, 1, defaultCount(list))
	assert.True(t, list[1].IsDefault)

	city := "Busan"
	list, err = e.addresses.UpdateAddress(ctx, "u1", list[0].ID, domain.UpdateAddressRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Busan", list[0].City)

	bad := "99"
	_, err = e.addresses.UpdateAddress(ctx, "u1", list[0].ID, domain.UpdateAddressRequest{ZipCode: &bad})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = e.addresses.UpdateAddress(ctx, "u1", "missing", domain.UpdateAddressRequest{City: &city})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAddress_PromotesEarliest(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	for _, line := range []string{"1 A St", "2 B St", "3 C St"} {
		_, err := e.addresses.AddAddress(ctx, "u1", addressReq(line))
		require.NoError(t, err)
	}
	list, err := e.addresses.ListAddresses(ctx, "u1")
	require.NoError(t, err)

	list, err = e.addresses.DeleteAddress(ctx, "u1", list[0].ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2 B St", list[0].AddressLine1)
	assert.True(t, list[0].IsDefault)
	assert.Equal(t, 1, defaultCount(list))

	list, err = e.addresses.DeleteAddress(ctx, "u1", list[1].ID)
	require.NoError(t, err)
	list, err = e.addresses.DeleteAddress(ctx, "u1", list[0].ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = e.addresses.DeleteAddress(ctx, "u1", "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressBook_DefaultInvariantUnderRandomOps(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	rng := rand.New(rand.NewSource(42))
	yes := true

	for i := 0; i < 200; i++ {
		list, err := e.addresses.ListAddresses(ctx, "u1")
		require.NoError(t, err)

		switch op := rng.Intn(3); {
		case op == 0 || len(list) == 0:
			list, err = e.addresses.AddAddress(ctx, "u1", addressReq("street"))
		case op == 1:
			list, err = e.addresses.UpdateAddress(ctx, "u1", list[rng.Intn(len(list))].ID, domain.UpdateAddressRequest{IsDefault: &yes})
		default:
			list, err = e.addresses.DeleteAddress(ctx, "u1", list[rng.Intn(len(list))].ID)
		}
		require.NoError(t, err)

		if len(list) == 0 {
			assert.Equal(t, 0, defaultCount(list))
		} else {
			assert.Equal(t, 1, defaultCount(list), "step %d", i)
		}
	}
}
