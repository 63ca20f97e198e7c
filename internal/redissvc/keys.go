package redissvc

import "time"

const (
	// cart:draft:{user_id} -> JSON cart
	KeyCartDraft = "cart:draft:%d"

	// auth:refresh:{token} -> user id
	KeyRefreshToken = "auth:refresh:%s"

	// cache:products:all -> JSON list of upstream products
	KeyProductsCache   = "cache:products:%s"
	KeyProductsPattern = "cache:products:*"

	// ratelimit:strikes:{ip}, ratelimit:ban:{ip}
	KeyLoginStrikes = "ratelimit:strikes:%s"
	KeyLoginBan     = "ratelimit:ban:%s"

	KeyDailyBanLog = "ratelimit:banlog:daily"
)

var (
	TTLCartDraft     = 7 * 24 * time.Hour
	TTLRefreshToken  = 7 * 24 * time.Hour
	TTLProductsCache = 30 * time.Second
)
