package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

const (
	KeyToggleThrottle = "vote:throttle:user:%d"
)

// KEYS = {该用户的计数窗口}
// ARGV = {窗口内允许次数, 窗口秒数}
var toggleThrottleScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[2])
	end
	if current > tonumber(ARGV[1]) then
		return 0 -- 超过限制
	end
	return 1
`)

type toggleThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

var _ domain.ToggleThrottle = (*toggleThrottle)(nil)

// NewToggleThrottle allows limit toggles per user within each fixed window.
func NewToggleThrottle(client *redis.Client, limit int64, window time.Duration) *toggleThrottle {
	if window < time.Second {
		window = time.Minute
	}
	return &toggleThrottle{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (t *toggleThrottle) Allow(ctx context.Context, userID int64) (bool, error) {
	if t.limit <= 0 {
		return true, nil
	}
	keys := []string{fmt.Sprintf(KeyToggleThrottle, userID)}
	args := []any{t.limit, int64(t.window / time.Second)}
	res, err := toggleThrottleScript.Run(ctx, t.client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
