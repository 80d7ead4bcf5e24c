package request

import (
	"github.com/gofiber/fiber/v2"

	"github.com/threadworks/gatehouse/pkg/moderation"
)

// FloodCheckRequest identifies the actor asking to post.
type FloodCheckRequest struct {
	ActorID string `json:"actor_id"`
}

// SubmissionRequest carries one submission to judge. remote_addr and
// user_agent describe the end user as seen by the calling backend;
// when omitted the values observed on this request are used instead.
type SubmissionRequest struct {
	ActorID    string `json:"actor_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
}

// ToSubmission fills the request metadata gaps from the incoming
// connection and returns the submission to check.
func (r SubmissionRequest) ToSubmission(c *fiber.Ctx) moderation.Submission {
	remoteAddr := r.RemoteAddr
	if remoteAddr == "" {
		remoteAddr = c.IP()
	}
	userAgent := r.UserAgent
	if userAgent == "" {
		userAgent = c.Get(fiber.HeaderUserAgent)
	}
	return moderation.Submission{
		ActorID:    r.ActorID,
		Title:      r.Title,
		Content:    r.Content,
		RemoteAddr: remoteAddr,
		UserAgent:  userAgent,
	}
}
