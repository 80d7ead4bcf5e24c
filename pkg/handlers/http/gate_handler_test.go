package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	optionMocks "github.com/threadworks/gatehouse/pkg/app/option/mocks"
	"github.com/threadworks/gatehouse/pkg/handlers/http/request"
	"github.com/threadworks/gatehouse/pkg/handlers/http/response"
	floodMocks "github.com/threadworks/gatehouse/pkg/infra/floodgate/mocks"
	"github.com/threadworks/gatehouse/pkg/moderation"
	checkerMocks "github.com/threadworks/gatehouse/pkg/moderation/mocks"
)

type gateFixture struct {
	app      *fiber.App
	checker  *checkerMocks.MockChecker
	settings *optionMocks.Provider
	flood    *floodMocks.MockStore
}

func setupGate(t *testing.T) *gateFixture {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	checker := new(checkerMocks.MockChecker)
	settings := new(optionMocks.Provider)
	flood := new(floodMocks.MockStore)

	handler := NewGateHandler(logger, checker, settings, flood)
	app := fiber.New()
	app.Post("/api/v1/gate", handler.Handle)

	return &gateFixture{app: app, checker: checker, settings: settings, flood: flood}
}

func postGate(t *testing.T, f *gateFixture, body request.SubmissionRequest) response.VerdictResponse {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/gate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decodeVerdict(t, resp.Body)
}

func TestGateHandler_AcceptedRecordsLastPost(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.checker.On("CheckModeration", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.settings.On("Settings", mock.Anything).Return(moderation.Settings{ThrottleSeconds: 60}, nil)
	f.flood.On("RecordPost", mock.Anything, "actor-1", mock.Anything, 60*time.Second).Return(nil)

	verdict := postGate(t, f, request.SubmissionRequest{ActorID: "actor-1", Content: "hello"})

	assert.True(t, verdict.Allowed)
	f.flood.AssertExpectations(t)
}

func TestGateHandler_FloodRejectedShortCircuits(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(false, nil)

	verdict := postGate(t, f, request.SubmissionRequest{ActorID: "actor-1", Content: "hello"})

	assert.False(t, verdict.Allowed)
	require.NotNil(t, verdict.Rejection)
	assert.Equal(t, response.KindFlood, verdict.Rejection.Kind)
	f.checker.AssertNotCalled(t, "CheckDisallowed", mock.Anything, mock.Anything)
	f.checker.AssertNotCalled(t, "CheckModeration", mock.Anything, mock.Anything)
	f.flood.AssertNotCalled(t, "RecordPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateHandler_DisallowedRejectedBeforeModeration(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Result{
		Allowed: false,
		Kind:    moderation.KindDisallowedMatch,
		Message: "content not allowed",
		Pattern: "badword",
		Field:   "content",
	}, nil)

	verdict := postGate(t, f, request.SubmissionRequest{ActorID: "actor-1", Content: "badword"})

	assert.False(t, verdict.Allowed)
	require.NotNil(t, verdict.Rejection)
	assert.Equal(t, string(moderation.KindDisallowedMatch), verdict.Rejection.Kind)
	f.checker.AssertNotCalled(t, "CheckModeration", mock.Anything, mock.Anything)
	f.flood.AssertNotCalled(t, "RecordPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateHandler_ModerationRejectedNoRecord(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.checker.On("CheckModeration", mock.Anything, mock.Anything).Return(moderation.Result{
		Allowed: false,
		Kind:    moderation.KindTooManyLinks,
		Message: "too many links",
		Links:   3,
	}, nil)

	verdict := postGate(t, f, request.SubmissionRequest{ActorID: "actor-1", Content: "spam"})

	assert.False(t, verdict.Allowed)
	require.NotNil(t, verdict.Rejection)
	assert.Equal(t, string(moderation.KindTooManyLinks), verdict.Rejection.Kind)
	assert.Equal(t, 3, verdict.Rejection.Links)
	f.flood.AssertNotCalled(t, "RecordPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateHandler_AnonymousAcceptedWithoutRecord(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.checker.On("CheckModeration", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)

	verdict := postGate(t, f, request.SubmissionRequest{Content: "anonymous note"})

	assert.True(t, verdict.Allowed)
	f.settings.AssertNotCalled(t, "Settings", mock.Anything)
	f.flood.AssertNotCalled(t, "RecordPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateHandler_RecordFailureStillAccepts(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.checker.On("CheckModeration", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)
	f.settings.On("Settings", mock.Anything).Return(moderation.Settings{ThrottleSeconds: 60}, nil)
	f.flood.On("RecordPost", mock.Anything, "actor-1", mock.Anything, 60*time.Second).
		Return(errors.New("redis unreachable"))

	verdict := postGate(t, f, request.SubmissionRequest{ActorID: "actor-1", Content: "hello"})

	assert.True(t, verdict.Allowed)
}

func TestGateHandler_CheckerFailure(t *testing.T) {
	f := setupGate(t)
	f.checker.On("CheckFlood", mock.Anything, "actor-1").Return(true, nil)
	f.checker.On("CheckDisallowed", mock.Anything, mock.Anything).
		Return(moderation.Result{}, errors.New("database unreachable"))

	payload, err := json.Marshal(request.SubmissionRequest{ActorID: "actor-1", Content: "hello"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/gate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
