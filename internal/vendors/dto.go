package vendors

import "github.com/angelmondragon/stockkeeper/pkg/db/models"

// CreateInput carries the fields of a new vendor. An empty contact is stored
// as NULL.
type CreateInput struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
}

// VendorDTO is the read model returned by List.
type VendorDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
}

// Option is an id/name pair for selection lists.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toDTO(v models.Vendor) VendorDTO {
	return VendorDTO{ID: v.ID, Name: v.Name, Contact: v.Contact}
}
