package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SendCard posts a card to a group chat.
func (c *FeishuClient) SendCard(ctx context.Context, chatID string, card InteractiveCard) error {
	return c.sendCard(ctx, "chat_id", chatID, card)
}

func (c *FeishuClient) sendCard(ctx context.Context, idType, id string, card InteractiveCard) error {
	cardBytes, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}

	reqBody := map[string]interface{}{
		"receive_id": id,
		"msg_type":   "interactive",
		"content":    string(cardBytes),
	}
	path := fmt.Sprintf("/open-apis/im/v1/messages?receive_id_type=%s", idType)

	var resp SendMessageResponse
	if err := c.doRequest(ctx, "POST", path, reqBody, &resp); err != nil {
		return fmt.Errorf("send card: %w", err)
	}
	return nil
}

var (
	boldTag = regexp.MustCompile(`</?b>`)
	anyTag  = regexp.MustCompile(`<[^>]+>`)
)

// htmlToLarkMD converts the small HTML subset used by alert messages.
func htmlToLarkMD(s string) string {
	s = boldTag.ReplaceAllString(s, "**")
	return strings.TrimSpace(anyTag.ReplaceAllString(s, ""))
}

// NewOrderAlertCard builds the card for a production alert on an order.
func NewOrderAlertCard(orderCode, message string) InteractiveCard {
	return InteractiveCard{
		Config: &CardConfig{WideScreenMode: true},
		Header: &CardHeader{
			Title:    CardText{Tag: "plain_text", Content: "🔔 Cảnh báo sản xuất"},
			Template: "orange",
		},
		Elements: []CardElement{
			{
				Tag: "div",
				Fields: []CardField{
					{IsShort: true, Text: CardText{Tag: "lark_md", Content: fmt.Sprintf("**Mã đơn**\n%s", orderCode)}},
				},
			},
			{
				Tag:  "div",
				Text: &CardText{Tag: "lark_md", Content: htmlToLarkMD(message)},
			},
		},
	}
}

// AlertNotifier posts order alerts to one group chat.
type AlertNotifier struct {
	client *FeishuClient
	chatID string
}

func NewAlertNotifier(client *FeishuClient, chatID string) *AlertNotifier {
	return &AlertNotifier{client: client, chatID: chatID}
}

func (n *AlertNotifier) Notify(ctx context.Context, orderCode, message string) error {
	return n.client.SendCard(ctx, n.chatID, NewOrderAlertCard(orderCode, message))
}
