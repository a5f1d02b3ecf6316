package services

import (
	"errors"
	"testing"
	"time"

	"github.com/conectados/social-service/internal/models"
	"github.com/conectados/social-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendshipFixture(t *testing.T) (*FriendshipService, uuid.UUID, uuid.UUID) {
	db := testutil.SetupTestDB(t)
	svc := NewFriendshipService(db)

	alice := uuid.New()
	bob := uuid.New()
	testutil.SeedProfile(t, db, alice, "alice")
	testutil.SeedProfile(t, db, bob, "bob")

	return svc, alice, bob
}

func TestSendRequest(t *testing.T) {
	t.Run("creates pending request", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusPending, f.Status)
		assert.Equal(t, alice, f.RequesterID)
		assert.Equal(t, bob, f.AddresseeID)
		assert.Nil(t, f.RespondedAt)
	})

	t.Run("rejects self request", func(t *testing.T) {
		svc, alice, _ := newFriendshipFixture(t)

		_, err := svc.SendRequest(alice, alice)
		assert.ErrorIs(t, err, ErrSelfFriendship)
	})

	t.Run("rejects unknown recipient", func(t *testing.T) {
		svc, alice, _ := newFriendshipFixture(t)

		_, err := svc.SendRequest(alice, uuid.New())
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("duplicate send conflicts", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		_, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		_, err = svc.SendRequest(alice, bob)
		assert.ErrorIs(t, err, ErrRequestAlreadySent)
	})

	t.Run("reciprocal send conflicts", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		_, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		_, err = svc.SendRequest(bob, alice)
		assert.ErrorIs(t, err, ErrRequestAlreadyReceived)
	})

	t.Run("already friends conflicts", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		_, err = svc.Accept(f.ID, bob)
		require.NoError(t, err)

		_, err = svc.SendRequest(alice, bob)
		assert.ErrorIs(t, err, ErrAlreadyFriends)

		_, err = svc.SendRequest(bob, alice)
		assert.ErrorIs(t, err, ErrAlreadyFriends)
	})

	t.Run("blocked pair is forbidden", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		_, err := svc.Block(alice, bob)
		require.NoError(t, err)

		// Neither side may request while the block stands.
		_, err = svc.SendRequest(bob, alice)
		assert.ErrorIs(t, err, ErrBlockedRelationship)

		_, err = svc.SendRequest(alice, bob)
		assert.ErrorIs(t, err, ErrBlockedRelationship)
	})
}

func TestSendRequestCooldown(t *testing.T) {
	t.Run("resend inside window reports days remaining", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		_, err = svc.Reject(f.ID, bob)
		require.NoError(t, err)

		// Ten days after the rejection.
		svc.now = func() time.Time { return time.Now().Add(10 * 24 * time.Hour) }

		_, err = svc.SendRequest(alice, bob)
		var cooldown *CooldownError
		require.True(t, errors.As(err, &cooldown))
		assert.Equal(t, models.RejectCooldownDays-10, cooldown.DaysRemaining)
	})

	t.Run("resend after window succeeds", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		_, err = svc.Reject(f.ID, bob)
		require.NoError(t, err)

		svc.now = func() time.Time {
			return time.Now().Add(time.Duration(models.RejectCooldownDays+1) * 24 * time.Hour)
		}

		fresh, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusPending, fresh.Status)
		assert.NotEqual(t, f.ID, fresh.ID)
	})
}

func TestRespond(t *testing.T) {
	t.Run("addressee accepts", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		accepted, err := svc.Accept(f.ID, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusAccepted, accepted.Status)
		require.NotNil(t, accepted.RespondedAt)
	})

	t.Run("requester cannot respond", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		_, err = svc.Accept(f.ID, alice)
		assert.ErrorIs(t, err, ErrNotAddressee)

		_, err = svc.Reject(f.ID, alice)
		assert.ErrorIs(t, err, ErrNotAddressee)
	})

	t.Run("double respond conflicts", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)
		_, err = svc.Accept(f.ID, bob)
		require.NoError(t, err)

		_, err = svc.Reject(f.ID, bob)
		assert.ErrorIs(t, err, ErrAlreadyResponded)
	})

	t.Run("unknown friendship", func(t *testing.T) {
		svc, _, bob := newFriendshipFixture(t)

		_, err := svc.Accept(uuid.New(), bob)
		assert.ErrorIs(t, err, ErrFriendshipNotFound)
	})
}

func TestBlock(t *testing.T) {
	t.Run("block overwrites accepted friendship", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(bob, alice)
		require.NoError(t, err)
		_, err = svc.Accept(f.ID, alice)
		require.NoError(t, err)

		blocked, err := svc.Block(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusBlocked, blocked.Status)
		// The row is reassigned so the blocker owns the requester side.
		assert.Equal(t, alice, blocked.RequesterID)
		assert.Equal(t, bob, blocked.AddresseeID)
		assert.Equal(t, f.ID, blocked.ID)
	})

	t.Run("block without prior relationship", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		blocked, err := svc.Block(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusBlocked, blocked.Status)
	})

	t.Run("self block", func(t *testing.T) {
		svc, alice, _ := newFriendshipFixture(t)

		_, err := svc.Block(alice, alice)
		assert.ErrorIs(t, err, ErrSelfBlock)
	})

	t.Run("unblock restores requestability", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		_, err := svc.Block(alice, bob)
		require.NoError(t, err)

		require.NoError(t, svc.Unblock(alice, bob))

		_, err = svc.SendRequest(bob, alice)
		assert.NoError(t, err)
	})

	t.Run("only blocker can unblock", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		_, err := svc.Block(alice, bob)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Unblock(bob, alice), ErrBlockNotFound)
	})

	t.Run("unblock without block", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		assert.ErrorIs(t, svc.Unblock(alice, bob), ErrBlockNotFound)
	})
}

func TestRemove(t *testing.T) {
	t.Run("requester cancels pending request", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		require.NoError(t, svc.Remove(f.ID, alice))

		status, err := svc.Status(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, "none", status.Status)
	})

	t.Run("outsider cannot remove", func(t *testing.T) {
		svc, alice, bob := newFriendshipFixture(t)

		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Remove(f.ID, uuid.New()), ErrNotParticipant)
	})
}

func TestListing(t *testing.T) {
	svc, alice, bob := newFriendshipFixture(t)
	carol := uuid.New()
	testutil.SeedProfile(t, svc.db, carol, "carol")

	// alice<->bob accepted, carol->alice pending.
	f, err := svc.SendRequest(alice, bob)
	require.NoError(t, err)
	_, err = svc.Accept(f.ID, bob)
	require.NoError(t, err)
	_, err = svc.SendRequest(carol, alice)
	require.NoError(t, err)

	t.Run("friends", func(t *testing.T) {
		rows, total, err := svc.ListFriends(alice, 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, rows, 1)
		assert.Equal(t, bob, rows[0].CounterpartOf(alice))
	})

	t.Run("pending received", func(t *testing.T) {
		rows, total, err := svc.ListPending(alice, "received", 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, rows, 1)
		assert.Equal(t, carol, rows[0].RequesterID)
	})

	t.Run("pending sent", func(t *testing.T) {
		rows, total, err := svc.ListPending(carol, "sent", 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, rows, 1)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, _, err := svc.ListPending(alice, "everything", 1, 20)
		assert.ErrorIs(t, err, ErrInvalidRequestType)
	})

	t.Run("blocked", func(t *testing.T) {
		_, err := svc.Block(bob, carol)
		require.NoError(t, err)

		rows, err := svc.ListBlocked(bob)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, carol, rows[0].AddresseeID)

		rows, err = svc.ListBlocked(carol)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestStatus(t *testing.T) {
	svc, alice, bob := newFriendshipFixture(t)

	t.Run("self", func(t *testing.T) {
		s, err := svc.Status(alice, alice)
		require.NoError(t, err)
		assert.Equal(t, "self", s.Status)
	})

	t.Run("none", func(t *testing.T) {
		s, err := svc.Status(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, "none", s.Status)
		assert.Nil(t, s.FriendshipID)
	})

	t.Run("pending from both sides", func(t *testing.T) {
		f, err := svc.SendRequest(alice, bob)
		require.NoError(t, err)

		fromRequester, err := svc.Status(alice, bob)
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusPending, fromRequester.Status)
		assert.True(t, fromRequester.IsRequester)
		assert.False(t, fromRequester.CanAccept)

		fromAddressee, err := svc.Status(bob, alice)
		require.NoError(t, err)
		assert.False(t, fromAddressee.IsRequester)
		assert.True(t, fromAddressee.CanAccept)
		assert.True(t, fromAddressee.CanReject)
		require.NotNil(t, fromAddressee.FriendshipID)
		assert.Equal(t, f.ID, *fromAddressee.FriendshipID)
	})
}

func TestExcludedUserIDs(t *testing.T) {
	svc, alice, bob := newFriendshipFixture(t)
	carol := uuid.New()
	dave := uuid.New()
	erin := uuid.New()
	for name, id := range map[string]uuid.UUID{"carol": carol, "dave": dave, "erin": erin} {
		testutil.SeedProfile(t, svc.db, id, name)
	}

	// bob accepted, carol pending, dave blocked, erin rejected.
	f, err := svc.SendRequest(alice, bob)
	require.NoError(t, err)
	_, err = svc.Accept(f.ID, bob)
	require.NoError(t, err)

	_, err = svc.SendRequest(alice, carol)
	require.NoError(t, err)

	_, err = svc.Block(alice, dave)
	require.NoError(t, err)

	f, err = svc.SendRequest(alice, erin)
	require.NoError(t, err)
	_, err = svc.Reject(f.ID, erin)
	require.NoError(t, err)

	excluded, err := svc.ExcludedUserIDs(alice)
	require.NoError(t, err)

	assert.Contains(t, excluded, alice)
	assert.Contains(t, excluded, bob)
	assert.Contains(t, excluded, carol)
	assert.Contains(t, excluded, dave)
	assert.NotContains(t, excluded, erin)
}
