package service

import (
	"context"
	"errors"
	"testing"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

func TestConversationIDIsSymmetric(t *testing.T) {
	a := ConversationID("buyer", "seller", "p1")
	b := ConversationID("seller", "buyer", "p1")
	if a != b {
		t.Fatalf("ConversationID not symmetric: %q vs %q", a, b)
	}
	if a != "buyer_seller_p1" {
		t.Errorf("ConversationID = %q", a)
	}
}

func messagingFixture() (*MessageService, *fakeMessages) {
	products := newFakeProducts(models.Product{
		ID: "p1", Title: "Toyota RAV4", SellerID: "seller", SellerName: "Alice Seller",
		SellerEmail: "alice@example.com", Status: models.ProductApproved,
	})
	messages := &fakeMessages{}
	return NewMessageService(messages, products), messages
}

func TestSendAndReply(t *testing.T) {
	svc, _ := messagingFixture()
	ctx := context.Background()
	buyer := &models.User{ID: "buyer", FullName: "Bob Buyer"}
	seller := &models.User{ID: "seller", FullName: "Alice Seller"}

	if _, err := svc.Send(ctx, buyer, "p1", "Is it still available?"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	inbox, err := svc.Conversations(ctx, seller, "")
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("seller has %d conversations, want 1", len(inbox))
	}
	c := inbox[0]
	if c.OtherUser.ID != "buyer" || c.Product.ID != "p1" || c.UnreadCount != 1 {
		t.Errorf("conversation = %+v", c)
	}

	reply, err := svc.Reply(ctx, seller, c.ID, "Yes")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.ReceiverID != "buyer" {
		t.Errorf("reply receiver = %s, want buyer", reply.ReceiverID)
	}

	n, err := svc.MarkRead(ctx, seller, c.ID)
	if err != nil || n != 1 {
		t.Errorf("MarkRead = %d, %v; want 1", n, err)
	}
	unread, _ := svc.UnreadCount(ctx, buyer)
	if unread != 1 {
		t.Errorf("buyer unread = %d, want 1", unread)
	}

	buyerView, _ := svc.Conversations(ctx, buyer, "")
	if len(buyerView) != 1 || len(buyerView[0].Messages) != 2 || buyerView[0].Messages[0].Content != "Yes" {
		t.Errorf("buyer view = %+v, want newest message first", buyerView)
	}
}

func TestSendRejections(t *testing.T) {
	svc, _ := messagingFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, nil, "p1", "hi"); !errors.Is(err, utils.ErrLoginRequired) {
		t.Errorf("anonymous err = %v, want ErrLoginRequired", err)
	}
	if _, err := svc.Send(ctx, &models.User{ID: "seller"}, "p1", "hi"); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("self message err = %v, want ErrValidation", err)
	}
	if _, err := svc.Send(ctx, &models.User{ID: "buyer"}, "p1", "  "); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("empty message err = %v, want ErrValidation", err)
	}
	if _, err := svc.Send(ctx, &models.User{ID: "buyer"}, "nope", "hi"); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("unknown product err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Reply(ctx, &models.User{ID: "buyer"}, "other_conv", "hi"); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("reply to foreign conversation err = %v, want ErrNotFound", err)
	}
}

func TestReplyStoreFailureIsNotNotFound(t *testing.T) {
	svc, messages := messagingFixture()
	ctx := context.Background()
	buyer := &models.User{ID: "buyer"}
	seller := &models.User{ID: "seller"}

	if _, err := svc.Send(ctx, buyer, "p1", "Is it still available?"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	down := errors.New("connection refused")
	messages.listErr = down

	_, err := svc.Reply(ctx, seller, ConversationID("buyer", "seller", "p1"), "Yes")
	if !errors.Is(err, down) {
		t.Fatalf("Reply err = %v, want the store error", err)
	}
	if errors.Is(err, utils.ErrNotFound) {
		t.Error("store failure reported as ErrNotFound")
	}
	if len(messages.rows) != 1 {
		t.Errorf("messages stored = %d, want 1", len(messages.rows))
	}
}

func TestConversationSearch(t *testing.T) {
	svc, _ := messagingFixture()
	ctx := context.Background()
	seller := &models.User{ID: "seller"}

	if _, err := svc.Send(ctx, &models.User{ID: "buyer", FullName: "Bob Buyer"}, "p1", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	for _, tt := range []struct {
		term string
		want int
	}{
		{"bob", 1},
		{"RAV4", 1},
		{"carol", 0},
	} {
		got, _ := svc.Conversations(ctx, seller, tt.term)
		if len(got) != tt.want {
			t.Errorf("search %q: %d conversations, want %d", tt.term, len(got), tt.want)
		}
	}
}
