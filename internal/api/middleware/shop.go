package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

const shopKey contextKey = "shop"

const shopHeader = "X-Shop-Domain"

// ShopScope requires the tenant domain on every merchant-facing request and
// stores it in the context. The platform session that normally carries the
// shop identity is out of scope here; the header stands in for it.
func ShopScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop := r.Header.Get(shopHeader)
		if shop == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing_shop_domain"})
			return
		}
		ctx := context.WithValue(r.Context(), shopKey, shop)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Shop(ctx context.Context) string {
	if shop, ok := ctx.Value(shopKey).(string); ok {
		return shop
	}
	return ""
}
