package post

import (
	"context"
	"log/slog"

	"github.com/ozdeals/dealpress/app/deal"
	"github.com/ozdeals/dealpress/app/telegram"
)

// Via identifies which delivery path carried a post.
type Via string

const (
	ViaRich Via = "rich"
	ViaText Via = "text"
)

// Delivery is the explicit outcome of the two-step delivery strategy.
type Delivery struct {
	Delivered bool
	Via       Via
	Err       error // the text-path error when Delivered is false
}

// Sender is the messaging collaborator contract: pre-rendered text in, no
// internal retries.
type Sender interface {
	SendPhoto(ctx context.Context, imageURL, caption string, buttons [][]telegram.Button) (telegram.Message, error)
	SendMessage(ctx context.Context, text string, buttons [][]telegram.Button) (telegram.Message, error)
}

// Publisher renders one deal into a post and runs the rich-then-text
// delivery strategy.
type Publisher struct {
	sender   Sender
	resolver *Resolver
	endsText string
}

// NewPublisher creates a publisher over the given sender and link resolver.
func NewPublisher(sender Sender, resolver *Resolver) *Publisher {
	return &Publisher{
		sender:   sender,
		resolver: resolver,
		endsText: "Limited time (check deal page)",
	}
}

// Publish renders and delivers one deal. Rich (image) delivery is attempted
// when the deal carries imagery; any rich failure, including missing
// imagery, falls back to a plain-text post with the resolved links in the
// body. A text failure fails the delivery, never the caller's loop.
func (p *Publisher) Publish(ctx context.Context, d deal.Deal, rankTag string) Delivery {
	dealURL := p.resolver.Resolve(d.StoreTag, d.URL)
	browseURL := deal.BrowseMoreURL(d.StoreTag)
	caption := FormatCard(d, p.endsText, []string{rankTag, d.Hashtag, "#Today", "#AustraliaDeals"})

	buttons := [][]telegram.Button{
		{{Text: "👉 Get Deal", URL: dealURL}},
		{{Text: "📌 Browse More", URL: browseURL}},
	}

	if _, err := p.sender.SendPhoto(ctx, d.ImageURL, caption, buttons); err == nil {
		return Delivery{Delivered: true, Via: ViaRich}
	} else {
		slog.Warn("Rich delivery failed, falling back to text",
			"store", d.StoreTag, "title", d.Title, "error", err)
	}

	if _, err := p.sender.SendMessage(ctx, FormatTextPost(caption, dealURL, browseURL), nil); err != nil {
		return Delivery{Delivered: false, Err: err}
	}
	return Delivery{Delivered: true, Via: ViaText}
}
