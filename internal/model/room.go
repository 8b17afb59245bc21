package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Room categories used across the marketplace. The empty string means the
// post did not declare a category and is treated as the default "phòng trọ".
const (
	CategoryPhongTro      = "phong-tro"
	CategoryNhaNguyenCan  = "nha-nguyen-can"
	CategoryCanHoChungCu  = "can-ho-chung-cu"
	CategoryCanHoMini     = "can-ho-mini"
	CategoryOGhep         = "o-ghep"
	CategoryDefaultVN     = "phòng trọ"
)

// Room represents a single rental post as stored in the vector index.
// Price and Area keep the display form the marketplace published; the
// filter layer parses them back into numbers when a criteria range is set.
type Room struct {
	ID          string    `json:"_id" db:"room_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Price       string    `json:"price" db:"price"`
	Area        string    `json:"area" db:"area"`
	Category    string    `json:"category" db:"category"`
	Options     JSONArray `json:"options" db:"options"`
	Images      JSONArray `json:"images" db:"images"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Username    string    `json:"username,omitempty" db:"username"`
	UserID      string    `json:"user_id,omitempty" db:"user_id"`
	PostedAt    string    `json:"created_at,omitempty" db:"posted_at"`
	UpdatedAt   string    `json:"updated_at,omitempty" db:"updated_at"`

	// Similarity is populated by retrieval only (1 - cosine distance),
	// never persisted on its own.
	Similarity float64 `json:"similarity" db:"similarity"`
}

// CategoryOrDefault returns the declared category tag, falling back to the
// default "phòng trọ" label for uncategorized posts.
func (r *Room) CategoryOrDefault() string {
	if r.Category == "" {
		return CategoryDefaultVN
	}
	return r.Category
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
