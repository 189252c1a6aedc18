package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"

	"github.com/go-chi/chi/v5"
)

// wantsInactive reports whether an admin asked to include inactive records.
func wantsInactive(r *http.Request) bool {
	claims := domain.ClaimsFromContext(r.Context())
	if !claims.IsAdmin() {
		return false
	}
	active := queryBool(r, "active")
	return active != nil && !*active
}

func listProductsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := normalizePage(queryInt(r, "page", 1), queryInt(r, "limit", 20))
		filter := domain.ProductFilter{
			Category:   r.URL.Query().Get("category"),
			Search:     r.URL.Query().Get("search"),
			ActiveOnly: !wantsInactive(r),
			Page:       page,
			Limit:      limit,
		}

		products, total, err := d.Products.List(r.Context(), filter)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondPage(w, products, page, limit, total)
	}
}

func getProductHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "idOrSlug")
		p, err := d.Products.Get(r.Context(), key)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		if !p.IsActive && !domain.ClaimsFromContext(r.Context()).IsAdmin() {
			respondError(w, d.Logger, domain.NotFound("product", key))
			return
		}
		respond(w, http.StatusOK, "OK", p)
	}
}

func createProductHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.ProductInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		p, err := d.Products.Create(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Product created", p)
	}
}

func updateProductHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.ProductInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		p, err := d.Products.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Product updated", p)
	}
}

func deleteProductHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "Product deleted")
	}
}

func syncProductsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.CatalogSync.SyncProducts(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, syncMessage(res), res)
	}
}

func listFeaturedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Featured.List(r.Context(), !wantsInactive(r))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", items)
	}
}

func createFeaturedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.FeaturedInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		f, err := d.Featured.Create(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Featured item created", f)
	}
}

func updateFeaturedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.FeaturedInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		f, err := d.Featured.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Featured item updated", f)
	}
}

func deleteFeaturedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Featured.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "Featured item deleted")
	}
}

func syncFeaturedHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.CatalogSync.SyncFeatured(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, syncMessage(res), res)
	}
}

// strapiWebhookHandler triggers a sync for the model named in the payload.
// Unknown models are acknowledged without work.
func strapiWebhookHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.CatalogSync.CheckWebhookSecret(r.Header.Get("Authorization")); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
		if err != nil {
			respondError(w, d.Logger, domain.Invalid("Failed to read body"))
			return
		}
		var hook application.StrapiWebhook
		if err := json.Unmarshal(body, &hook); err != nil {
			respondError(w, d.Logger, domain.Invalid("Invalid JSON body: %v", err))
			return
		}

		res, handled, err := d.CatalogSync.HandleStrapiWebhook(r.Context(), hook)
		if err != nil {
			// A sync already running will pick up the change.
			if errors.Is(err, domain.ErrConflict) {
				respondMessage(w, http.StatusAccepted, true, err.Error())
				return
			}
			respondError(w, d.Logger, err)
			return
		}
		if !handled {
			respondMessage(w, http.StatusOK, true, "Event ignored")
			return
		}
		respond(w, http.StatusOK, syncMessage(res), res)
	}
}

func syncMessage(res *application.SyncResult) string {
	if res != nil && len(res.Failed) > 0 {
		return "Sync completed with failures"
	}
	return "Sync completed"
}
