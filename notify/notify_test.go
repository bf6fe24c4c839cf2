package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// stubSender records sends and returns scripted results.
type stubSender struct {
	sendErr  error
	replyErr error

	sent    []*discordgo.MessageSend
	replies []string
	refs    []*discordgo.MessageReference
}

func (s *stubSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = append(s.sent, data)
	return &discordgo.Message{ID: "msg1", ChannelID: channelID}, nil
}

func (s *stubSender) ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if s.replyErr != nil {
		return nil, s.replyErr
	}
	s.replies = append(s.replies, content)
	s.refs = append(s.refs, reference)
	return &discordgo.Message{ID: "msg2", ChannelID: channelID}, nil
}

func testNotifier(stub *stubSender) *Discord {
	return NewDiscord(nil, "chan1", WithSender(stub))
}

func TestSendBuildsEmbed(t *testing.T) {
	stub := &stubSender{}
	d := testNotifier(stub)

	n := Notification{
		Title:       "✨ New Effect Code Generated! (2D Editor)",
		Description: "*Skill Name: `Fireball`*",
		Color:       0x3498DB,
		Fields: []Field{
			{Name: "Layer Count", Value: "**3**", Inline: true},
			{Name: "⚡ Active Modes", Value: "None"},
		},
		Footer: Footer{Text: "Powered by AuraFX", IconURL: "https://aurafx.vercel.app/favicon.ico"},
	}
	if err := d.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(stub.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(stub.sent))
	}
	embed := stub.sent[0].Embeds[0]
	if embed.Title != n.Title || embed.Description != n.Description || embed.Color != n.Color {
		t.Errorf("embed header mismatch: %+v", embed)
	}
	if len(embed.Fields) != 2 || embed.Fields[0].Name != "Layer Count" || !embed.Fields[0].Inline {
		t.Errorf("embed fields mismatch: %+v", embed.Fields)
	}
	if embed.Footer == nil || embed.Footer.Text != "Powered by AuraFX" {
		t.Errorf("embed footer mismatch: %+v", embed.Footer)
	}
	if len(stub.replies) != 0 {
		t.Error("mention follow-up sent without a mention target")
	}
}

func TestSendAttachesImage(t *testing.T) {
	stub := &stubSender{}
	d := testNotifier(stub)

	n := Notification{
		Title: "x",
		Image: &Attachment{Filename: "preview_1.png", Data: []byte{0x89, 'P', 'N', 'G'}},
	}
	if err := d.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msg := stub.sent[0]
	if len(msg.Files) != 1 || msg.Files[0].Name != "preview_1.png" {
		t.Fatalf("files = %+v, want one preview_1.png", msg.Files)
	}
	if got := msg.Embeds[0].Image.URL; got != "attachment://preview_1.png" {
		t.Errorf("embed image URL = %q", got)
	}
}

func TestSendMentionFollowUp(t *testing.T) {
	stub := &stubSender{}
	d := testNotifier(stub)

	n := Notification{Title: "x", MentionUserID: "user42"}
	if err := d.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(stub.replies) != 1 || stub.replies[0] != "<@user42>" {
		t.Fatalf("replies = %v, want one <@user42>", stub.replies)
	}
	if stub.refs[0] == nil || stub.refs[0].MessageID != "msg1" {
		t.Errorf("follow-up reference = %+v, want reply to msg1", stub.refs[0])
	}
}

func TestSendMentionFailureIsBestEffort(t *testing.T) {
	stub := &stubSender{replyErr: errors.New("boom")}
	d := testNotifier(stub)

	n := Notification{Title: "x", MentionUserID: "user42"}
	if err := d.Send(context.Background(), n); err != nil {
		t.Fatalf("Send failed because of mention follow-up: %v", err)
	}
	if len(stub.sent) != 1 {
		t.Error("primary message not sent")
	}
}

func TestSendUnknownChannel(t *testing.T) {
	stub := &stubSender{sendErr: &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
	}}
	d := testNotifier(stub)

	err := d.Send(context.Background(), Notification{Title: "x"})
	var notFound *ErrChannelNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrChannelNotFound", err)
	}
	if notFound.Channel != "chan1" {
		t.Errorf("Channel = %q, want chan1", notFound.Channel)
	}
}

func TestSendFailureWrapsCause(t *testing.T) {
	cause := errors.New("gateway exploded")
	stub := &stubSender{sendErr: cause}
	d := testNotifier(stub)

	err := d.Send(context.Background(), Notification{Title: "x"})
	var failed *ErrSendFailed
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ErrSendFailed does not unwrap to the cause")
	}
}

func TestSendAfterClose(t *testing.T) {
	stub := &stubSender{}
	d := testNotifier(stub)
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := d.Send(context.Background(), Notification{Title: "x"})
	var failed *ErrSendFailed
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want ErrSendFailed after close", err)
	}
	if len(stub.sent) != 0 {
		t.Error("message sent through a closed notifier")
	}
}
