package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
)

type Config struct {
	MaxStrikes   int
	StrikeWindow time.Duration
	Duration     time.Duration
}

// Guard bans an IP from login after MaxStrikes failures inside
// StrikeWindow. Bans and strikes live in Redis so they survive restarts
// and are shared between instances.
type Guard struct {
	rdb    *redis.Client
	ctx    context.Context
	cfg    Config
	mailer Mailer
	log    *logrus.Entry
}

func NewGuard(rs *redissvc.RedisService, cfg Config, mailer Mailer) *Guard {
	if cfg.MaxStrikes <= 0 {
		cfg.MaxStrikes = 5
	}
	if cfg.StrikeWindow <= 0 {
		cfg.StrikeWindow = 10 * time.Minute
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 15 * time.Minute
	}
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &Guard{rdb: rs.Rdb(), ctx: rs.Ctx(), cfg: cfg, mailer: mailer, log: logging.WithModule("ban")}
}

// Banned reports whether target is banned and for how much longer.
func (g *Guard) Banned(target string) (bool, time.Duration) {
	ttl, err := g.rdb.TTL(g.ctx, fmt.Sprintf(redissvc.KeyLoginBan, target)).Result()
	if err != nil {
		g.log.WithError(err).Warn("could not read ban state")
		return false, 0
	}
	if ttl <= 0 {
		return false, 0
	}
	return true, ttl
}

// Strike records one failed attempt and bans target once the limit is
// reached. It returns true when this strike caused a ban.
func (g *Guard) Strike(target, route string) bool {
	key := fmt.Sprintf(redissvc.KeyLoginStrikes, target)
	strikes, err := g.rdb.Incr(g.ctx, key).Result()
	if err != nil {
		g.log.WithError(err).Warn("could not record strike")
		return false
	}
	if strikes == 1 {
		_ = g.rdb.Expire(g.ctx, key, g.cfg.StrikeWindow).Err()
	}
	if strikes < int64(g.cfg.MaxStrikes) {
		return false
	}

	_ = g.rdb.Set(g.ctx, fmt.Sprintf(redissvc.KeyLoginBan, target), strikes, g.cfg.Duration).Err()
	_ = g.rdb.Del(g.ctx, key).Err()

	g.log.WithFields(logrus.Fields{"target": target, "route": route, "strikes": strikes}).Warn("login banned")
	g.logBanEvent(target, route, int(strikes))
	g.sendBanAlert(target, route, int(strikes))
	return true
}

// Reset clears strikes after a successful login.
func (g *Guard) Reset(target string) {
	_ = g.rdb.Del(g.ctx, fmt.Sprintf(redissvc.KeyLoginStrikes, target)).Err()
}

func (g *Guard) sendBanAlert(target, route string, strikes int) {
	subject := fmt.Sprintf("BAN ALERT: %s blocked", target)
	body := fmt.Sprintf("<p>Target: %s<br>Route: %s<br>Strikes: %d<br>Time: %s</p>",
		target, route, strikes, time.Now().Format(time.RFC3339))

	go func() {
		if err := g.mailer.Send(subject, body); err != nil {
			g.log.WithError(err).Error("failed to send alert email")
		}
	}()
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (g *Guard) logBanEvent(target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = g.rdb.RPush(g.ctx, redissvc.KeyDailyBanLog, data).Err()
}

// StartDailyBanSummary mails the ban log every day at 23:59 until stop
// is closed.
func (g *Guard) StartDailyBanSummary(stop <-chan struct{}) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.Add(24 * time.Hour)
		}
		select {
		case <-stop:
			return
		case <-time.After(time.Until(next)):
			if err := g.SendDailyBanSummary(); err != nil {
				g.log.WithError(err).Error("failed to send daily ban summary")
			}
		}
	}
}

// SendDailyBanSummary drains the ban log and mails it. An empty log
// sends nothing.
func (g *Guard) SendDailyBanSummary() error {
	entries, err := g.rdb.LRange(g.ctx, redissvc.KeyDailyBanLog, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return err
	}
	_ = g.rdb.Del(g.ctx, redissvc.KeyDailyBanLog).Err()

	var logs []BanLogEntry
	for _, item := range entries {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			logs = append(logs, entry)
		}
	}

	if err := g.mailer.Send("Daily Ban Report", SummaryHTML(logs)); err != nil {
		return err
	}
	g.log.Info("daily ban summary sent")
	return nil
}

func SummaryHTML(logs []BanLogEntry) string {
	routeCounts := map[string]int{}
	targetCounts := map[string]int{}
	for _, entry := range logs {
		routeCounts[entry.Route]++
		targetCounts[entry.Target]++
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily Ban Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total bans: <strong>%d</strong></p>", len(logs)))

	sb.WriteString("<h3>By Route</h3><ul>")
	for _, route := range sortedKeys(routeCounts) {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", route, routeCounts[route]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>By IP</h3><ul>")
	for _, target := range sortedKeys(targetCounts) {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", target, targetCounts[target]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Full Log</h3><ul>")
	for _, entry := range logs {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> on <code>%s</code> (%d strikes) at %s</li>",
			entry.Target, entry.Route, entry.Strikes, entry.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
