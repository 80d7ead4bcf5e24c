package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/threadworks/gatehouse/pkg/handlers/http/request"
	"github.com/threadworks/gatehouse/pkg/moderation"
	checkerMocks "github.com/threadworks/gatehouse/pkg/moderation/mocks"
)

func TestCheckDisallowedHandler_Allowed(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	checker := new(checkerMocks.MockChecker)
	checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Accepted(), nil)

	app := newCheckApp(t, "POST", "/api/v1/checks/disallowed", NewCheckDisallowedHandler(logger, checker))

	body, _ := json.Marshal(request.SubmissionRequest{ActorID: "actor-1", Content: "fine"})
	req := httptest.NewRequest("POST", "/api/v1/checks/disallowed", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decodeVerdict(t, resp.Body).Allowed)
}

func TestCheckDisallowedHandler_Rejected(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	checker := new(checkerMocks.MockChecker)
	checker.On("CheckDisallowed", mock.Anything, mock.Anything).Return(moderation.Result{
		Allowed: false,
		Kind:    moderation.KindDisallowedMatch,
		Message: "content not allowed",
		Pattern: "badword",
		Field:   "title",
	}, nil)

	app := newCheckApp(t, "POST", "/api/v1/checks/disallowed", NewCheckDisallowedHandler(logger, checker))

	body, _ := json.Marshal(request.SubmissionRequest{ActorID: "actor-1", Title: "badword"})
	req := httptest.NewRequest("POST", "/api/v1/checks/disallowed", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	verdict := decodeVerdict(t, resp.Body)
	assert.False(t, verdict.Allowed)
	require.NotNil(t, verdict.Rejection)
	assert.Equal(t, string(moderation.KindDisallowedMatch), verdict.Rejection.Kind)
	assert.Equal(t, "badword", verdict.Rejection.Pattern)
	assert.Equal(t, "title", verdict.Rejection.Field)
}
