package api

import (
	"net/http"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"

	"github.com/go-chi/chi/v5"
)

func registerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.RegisterInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		res, err := d.Auth.Register(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Registered", res)
	}
}

func loginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.LoginInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		res, err := d.Auth.Login(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Logged in", res)
	}
}

// userID returns the authenticated caller. Routes using it sit behind RequireAuth.
func userID(r *http.Request) string {
	if c := domain.ClaimsFromContext(r.Context()); c != nil {
		return c.UserID
	}
	return ""
}

func meHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Auth.Me(r.Context(), userID(r))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", u)
	}
}

func getProfileHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Profiles.Get(r.Context(), userID(r))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", u)
	}
}

func updateProfileHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.ProfileInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		u, err := d.Profiles.Update(r.Context(), userID(r), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Profile updated", u)
	}
}

func addAddressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.AddressInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		u, err := d.Profiles.AddAddress(r.Context(), userID(r), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Address added", u.Addresses)
	}
}

func updateAddressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.AddressInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		u, err := d.Profiles.UpdateAddress(r.Context(), userID(r), chi.URLParam(r, "id"), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Address updated", u.Addresses)
	}
}

func deleteAddressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Profiles.DeleteAddress(r.Context(), userID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Address deleted", u.Addresses)
	}
}

func defaultAddressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Profiles.SetDefaultAddress(r.Context(), userID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Default address updated", u.Addresses)
	}
}
