package api

import (
	"net/http"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"

	"github.com/go-chi/chi/v5"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func listDesignsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := domain.DesignFilter{
			Category:     domain.DesignCategory(r.URL.Query().Get("category")),
			ApplicableTo: r.URL.Query().Get("applicableTo"),
			ActiveOnly:   !wantsInactive(r),
		}
		if filter.Category != "" && !filter.Category.Valid() {
			respondError(w, d.Logger, domain.Invalid("Invalid category: %s", filter.Category))
			return
		}
		designs, err := d.Designs.List(r.Context(), filter)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", designs)
	}
}

func getDesignHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		design, err := d.Designs.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", design)
	}
}

func createDesignHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.DesignInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		design, err := d.Designs.Create(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Design created", design)
	}
}

func updateDesignHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.DesignInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		design, err := d.Designs.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Design updated", design)
	}
}

func deleteDesignHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Designs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "Design deleted")
	}
}

func listHeroesHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		heroes, err := d.Heroes.List(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", heroes)
	}
}

func activeHeroHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hero, err := d.Heroes.GetActive(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", hero)
	}
}

func createHeroHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.HeroInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		hero, err := d.Heroes.Create(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Hero created", hero)
	}
}

func updateHeroHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.HeroInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		hero, err := d.Heroes.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Hero updated", hero)
	}
}

func deleteHeroHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Heroes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "Hero deleted")
	}
}

func getSettingsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := d.Settings.Get(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", settings)
	}
}

func updateSettingsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.SettingsInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		settings, err := d.Settings.Update(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Settings updated", settings)
	}
}

func submitContactHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.ContactInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		c, err := d.Contacts.Submit(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Message received", c)
	}
}

func listContactsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.ContactStatus(r.URL.Query().Get("status"))
		contacts, err := d.Contacts.List(r.Context(), status)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", contacts)
	}
}

func contactStatusHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in statusRequest
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		c, err := d.Contacts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.ContactStatus(in.Status))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Status updated", c)
	}
}

func deleteContactHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondMessage(w, http.StatusOK, true, "Message deleted")
	}
}
