package floodgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_LastPost_Found(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	postedAt := time.Unix(1748779200, 0)

	mock.ExpectGet("floodgate:lastpost:member-42").SetVal("1748779200")

	store := NewRedisStore(redisMock, logrus.New())
	lastPostedAt, found, err := store.LastPost(context.Background(), "member-42")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.True(t, postedAt.Equal(lastPostedAt))
}

func TestRedisStore_LastPost_NotFound(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	mock.ExpectGet("floodgate:lastpost:member-42").RedisNil()

	store := NewRedisStore(redisMock, logrus.New())
	_, found, err := store.LastPost(context.Background(), "member-42")

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_LastPost_Error(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	mock.ExpectGet("floodgate:lastpost:member-42").SetErr(errors.New("connection refused"))

	store := NewRedisStore(redisMock, logrus.New())
	_, _, err := store.LastPost(context.Background(), "member-42")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read last post marker")
}

func TestRedisStore_LastPost_MalformedMarker(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	mock.ExpectGet("floodgate:lastpost:member-42").SetVal("not-a-timestamp")

	store := NewRedisStore(redisMock, logrus.New())
	_, found, err := store.LastPost(context.Background(), "member-42")

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_RecordPost(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	postedAt := time.Unix(1748779200, 0)

	mock.ExpectSet("floodgate:lastpost:member-42", "1748779200", time.Minute).SetVal("OK")

	store := NewRedisStore(redisMock, logrus.New())
	err := store.RecordPost(context.Background(), "member-42", postedAt, time.Minute)

	assert.NoError(t, err)
}

func TestRedisStore_RecordPost_ZeroWindow(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	store := NewRedisStore(redisMock, logrus.New())
	err := store.RecordPost(context.Background(), "member-42", time.Unix(1748779200, 0), 0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RecordPost_Error(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	mock.ExpectSet("floodgate:lastpost:member-42", "1748779200", time.Minute).SetErr(errors.New("connection refused"))

	store := NewRedisStore(redisMock, logrus.New())
	err := store.RecordPost(context.Background(), "member-42", time.Unix(1748779200, 0), time.Minute)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store last post marker")
}
