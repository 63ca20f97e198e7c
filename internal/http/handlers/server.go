package handlers

import (
	"time"

	"github.com/rogerio-castellano/order-desk/internal/auth"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
	repo "github.com/rogerio-castellano/order-desk/internal/repo"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

var (
	shop            *shopapi.Client
	authService     *auth.AuthService
	checkoutService *checkout.Service

	userRepo       repo.UserRepository
	prefsRepo      repo.PreferencesRepository
	submissionRepo repo.SubmissionRepository
	cartStore      repo.CartStore

	productsCache    *redissvc.RedisService
	productsCacheTTL = redissvc.TTLProductsCache

	lowStockThreshold = 5
	location          = time.Local
)

func SetShopClient(c *shopapi.Client) {
	shop = c
}

func SetAuthService(s *auth.AuthService) {
	authService = s
}

func SetCheckoutService(s *checkout.Service) {
	checkoutService = s
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetPreferencesRepo(r repo.PreferencesRepository) {
	prefsRepo = r
}

func SetSubmissionRepo(r repo.SubmissionRepository) {
	submissionRepo = r
}

func SetCartStore(s repo.CartStore) {
	cartStore = s
}

// SetProductsCache enables caching of the upstream product list; nil
// disables it.
func SetProductsCache(rs *redissvc.RedisService, ttl time.Duration) {
	productsCache = rs
	if ttl > 0 {
		productsCacheTTL = ttl
	}
}

func SetLowStockThreshold(n int) {
	lowStockThreshold = n
}

// SetLocation selects the time zone used to group stock history by day.
func SetLocation(loc *time.Location) {
	if loc != nil {
		location = loc
	}
}
