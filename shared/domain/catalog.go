package domain

import (
	"io"
	"time"
)

type ImageCategory string

const (
	ImageCategoryVenue      ImageCategory = "Venue"
	ImageCategoryDecor      ImageCategory = "Decor"
	ImageCategoryEvents     ImageCategory = "Events"
	ImageCategoryCatering   ImageCategory = "Catering"
	ImageCategoryCeremonies ImageCategory = "Ceremonies"
	ImageCategoryOthers     ImageCategory = "Others"
)

var ImageCategories = []ImageCategory{
	ImageCategoryVenue,
	ImageCategoryDecor,
	ImageCategoryEvents,
	ImageCategoryCatering,
	ImageCategoryCeremonies,
	ImageCategoryOthers,
}

func (c ImageCategory) Valid() bool {
	for _, v := range ImageCategories {
		if v == c {
			return true
		}
	}
	return false
}

// StoredObject is what object storage hands back after an upload. Key is the
// handle used to destroy it later.
type StoredObject struct {
	URL string
	Key string
}

// Object is a blob on its way to object storage.
type Object struct {
	Data        io.Reader
	Size        int64
	ContentType string
	Ext         string // with leading dot
}

// PendingImage is a validated upload that has not reached object storage yet.
type PendingImage struct {
	Data        io.Reader
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
}

type Category struct {
	Id        CategoryId `json:"id"`
	Name      string     `json:"name"`
	ImageURL  string     `json:"image_url,omitempty"`
	ImageKey  string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

type Dish struct {
	Id              DishId     `json:"id"`
	Name            string     `json:"name"`
	Price           float64    `json:"price"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"description_html"`
	CategoryId      CategoryId `json:"category_id"`
	Category        *Category  `json:"category,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	ImageKey        string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DishUpdate carries a partial update; nil fields are left untouched.
type DishUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	CategoryId  *CategoryId
}

type MenuItem struct {
	Id        MenuItemId `json:"id"`
	Title     string     `json:"title"`
	Price     float64    `json:"price"`
	Points    Points     `json:"points"`
	ImageURL  string     `json:"image_url,omitempty"`
	ImageKey  string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

type Poster struct {
	Id        PosterId  `json:"id"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryImage struct {
	Id        ImageId       `json:"id"`
	Link      string        `json:"link"`
	Key       string        `json:"-"`
	Category  ImageCategory `json:"category"`
	CreatedAt time.Time     `json:"created_at"`
}

type ContactMessage struct {
	Id        ContactId `json:"id"`
	Name      string    `json:"name"`
	Email     Email     `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuItemUpdate carries a partial update; nil fields are left untouched.
type MenuItemUpdate struct {
	Title  *string
	Price  *float64
	Points *Points
}
