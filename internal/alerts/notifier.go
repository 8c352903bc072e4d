package alerts

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

// Notifier pushes stock warnings to the admin chat. A nil *Notifier is a
// valid no-op, so callers never need to branch on configuration.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// New returns (nil, nil) when no token or chat is configured.
func New(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Notifier{api: api, chatID: chatID, log: log, seen: map[string]bool{}}, nil
}

// LowStock alerts once per product that dropped to or below its safe stock;
// a product that recovers above the threshold re-arms its alert.
func (n *Notifier) LowStock(products []ledger.Product) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	var lines []string
	for _, p := range products {
		if p.Stock <= p.SafeStock {
			if !n.seen[p.ID] {
				n.seen[p.ID] = true
				lines = append(lines, fmt.Sprintf("• %s (%s)：库存 %.0f，安全库存 %.0f", p.Name, p.ID, p.Stock, p.SafeStock))
			}
		} else {
			delete(n.seen, p.ID)
		}
	}
	if len(lines) == 0 {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, "库存预警\n"+strings.Join(lines, "\n"))
	if _, err := n.api.Send(msg); err != nil {
		n.log.Error("low stock alert failed", "err", err)
	}
}
