// Package notify 新联系消息的管理员通知：Telegram Bot API，尽力而为。
package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"nexline-site/internal/domain"
)

type Telegram struct {
	token  string
	chatID int64
	http   *http.Client
	log    *zap.Logger
}

// NewTelegram token 为空返回 nil，调用侧按未配置处理
func NewTelegram(token string, adminChatID int64, log *zap.Logger) *Telegram {
	if token == "" || adminChatID == 0 {
		return nil
	}
	return &Telegram{
		token:  token,
		chatID: adminChatID,
		http:   &http.Client{Timeout: 35 * time.Second},
		log:    log,
	}
}

// ContactMessage 通知失败只记日志；消息本体此前已落库
func (t *Telegram) ContactMessage(m *domain.ContactMessage) {
	if t == nil {
		return
	}
	text := fmt.Sprintf("<b>New contact message</b>\nFrom: %s (%s)", m.Name, m.Email)
	if m.Company != "" {
		text += "\nCompany: " + m.Company
	}
	if m.Service != "" {
		text += "\nService: " + m.Service
	}
	text += "\n\n" + m.Message
	t.send(text)
}

func (t *Telegram) send(text string) {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	resp, err := t.http.PostForm(endpoint, url.Values{
		"chat_id":                  {fmt.Sprintf("%d", t.chatID)},
		"text":                     {text},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	})
	if err != nil {
		t.log.Warn("telegram send", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		t.log.Warn("telegram send rejected", zap.String("description", result.Description))
	}
}
