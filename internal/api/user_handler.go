package api

import (
	"fmt"
	"net/http"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/interfaces"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/service"
)

const maxProfileRequestBytes = 6 << 20

type UserHandler struct {
	service interfaces.UserService
}

func NewUserHandler(svc interfaces.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetProfile(r.Context(), id.UserID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Description  Multipart form; only the fields that are sent are changed.
// @Tags         User
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name                 formData  string  false  "Name"
// @Param        email                formData  string  false  "Email"
// @Param        phone                formData  string  false  "Phone"
// @Param        address[street]      formData  string  false  "Street"
// @Param        address[city]        formData  string  false  "City"
// @Param        address[state]       formData  string  false  "State"
// @Param        address[postalCode]  formData  string  false  "Postal code"
// @Param        address[country]     formData  string  false  "Country"
// @Param        profilePhoto         formData  file    false  "Image up to 5 MB"
// @Success      200                  {object}  UserResponse
// @Failure      400                  {object}  ErrorResponse
// @Failure      409                  {object}  ErrorResponse
// @Router       /user/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := parseForm(w, r, maxProfileRequestBytes); err != nil {
		respondWithError(w, err)
		return
	}

	update := service.ProfileUpdate{}
	update.Name, _ = formValue(r, "name")
	update.Phone, _ = formValue(r, "phone")
	if email, ok := formValue(r, "email"); ok {
		if err := getInstance().Var(*email, "required,email"); err != nil {
			respondWithError(w, fmt.Errorf("%w: Field 'email' failed on the 'email' tag", app_errors.ErrValidation))
			return
		}
		update.Email = email
	}
	update.Address = addressFromForm(r)

	photos, cleanup, err := openUploads(r, "profilePhoto")
	defer cleanup()
	if err != nil {
		respondWithError(w, err)
		return
	}
	if len(photos) > 0 {
		update.Photo = &photos[0]
	}

	user, err := h.service.UpdateProfile(r.Context(), id.UserID, update)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, UserResponse{Success: true, Message: "Profile updated successfully", User: user})
}

// addressFromForm returns nil unless at least one address[...] field was sent.
func addressFromForm(r *http.Request) *model.Address {
	var addr model.Address
	found := false
	for field, dst := range map[string]*string{
		"address[street]":     &addr.Street,
		"address[city]":       &addr.City,
		"address[state]":      &addr.State,
		"address[postalCode]": &addr.PostalCode,
		"address[country]":    &addr.Country,
	} {
		if v, ok := formValue(r, field); ok {
			*dst = *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &addr
}
