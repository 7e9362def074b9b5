package mail

import (
	"context"
	"strings"
	"testing"

	"quizmania-service/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(domain.Email{
		To:      "alice@example.com",
		ReplyTo: "quizmania@no-reply.com",
		From:    "quizmania@no-reply.com",
		Subject: "Complete Registration",
		Content: `<a href="http://localhost/confirmation?token=abc">verify</a>`,
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	rcpts, err := msg.GetRecipients()
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(rcpts) != 1 || !strings.Contains(rcpts[0], "alice@example.com") {
		t.Fatalf("unexpected recipients %v", rcpts)
	}
}

func TestLogMailerRejectsBadAddress(t *testing.T) {
	err := LogMailer{}.Send(context.Background(), domain.Email{To: "not an address", From: "quizmania@no-reply.com"})
	if err == nil {
		t.Fatalf("expected invalid address to fail")
	}
}
