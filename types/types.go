package types

import (
	"strings"
	"time"
)

// PlaceholderTitle is used when an image carries no title, headline or object name
const PlaceholderTitle = "No title"

// ImageRecord holds a stored image together with its normalized EXIF and IPTC fields
type ImageRecord struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	FilePath       string     `json:"file_path"`
	Format         string     `json:"format"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Size           int64      `json:"size"`
	AverageHash    string     `json:"average_hash"`
	PerceptualHash string     `json:"perceptual_hash"`
	CreatedAt      string     `json:"created_at"`
	ModifiedAt     string     `json:"modified_at"`
	CollectionID   int64      `json:"collection_id"`
	Tags           []string   `json:"tags"`
	Title          string     `json:"title"`
	Story          string     `json:"story"`
	TakenAt        *time.Time `json:"date_time_original,omitempty"`

	// HasProcessedMetadata guards against running the metadata pipeline twice
	HasProcessedMetadata bool `json:"has_processed_metadata"`

	// EXIF
	Aperture           string `json:"aperture"`
	FocalLength        string `json:"focal_length"`
	ISORating          string `json:"iso_rating"`
	MeteringMode       string `json:"metering_mode"`
	ShutterSpeed       string `json:"shutter_speed"`
	CameraMake         string `json:"camera_make"`
	CameraModel        string `json:"camera_model"`
	LensMake           string `json:"lens_make"`
	LensModel          string `json:"lens_model"`
	Owner              string `json:"owner"`
	Artist             string `json:"artist"`
	Software           string `json:"software"`
	Copyright          string `json:"copyright"`
	CameraSerialNumber string `json:"camera_serial_number"`
	LensSerialNumber   string `json:"lens_serial_number"`
	LensSpecification  string `json:"lens_specification"`

	// IPTC
	ByLine                 string `json:"by_line"`
	Caption                string `json:"caption"`
	Category               string `json:"category"`
	City                   string `json:"city"`
	CopyrightNotice        string `json:"copyright_notice"`
	CountryISOLocationCode string `json:"country_iso_location_code"`
	CountryLocationName    string `json:"country_location_name"`
	Credit                 string `json:"credit"`
	State                  string `json:"state"`
	PostalCode             string `json:"postal_code"`
	Country                string `json:"country"`
	Phone                  string `json:"phone"`
	Email                  string `json:"email"`
	Website                string `json:"website"`
	Address                string `json:"address"`
	Headline               string `json:"headline"`
	Keywords               string `json:"keywords"`
	Source                 string `json:"source"`
	SpecialInstructions    string `json:"special_instructions"`
	Location               string `json:"location"`

	// Extra keeps values written by rules or defaults for fields without a column
	Extra map[string]string `json:"extra,omitempty"`
}

// StringFields lists every text field an ImageRecord accepts by name
var StringFields = []string{
	"title", "story",
	"aperture", "focal_length", "iso_rating", "metering_mode", "shutter_speed",
	"camera_make", "camera_model", "lens_make", "lens_model",
	"owner", "artist", "software", "copyright",
	"camera_serial_number", "lens_serial_number", "lens_specification",
	"by_line", "caption", "category", "city", "copyright_notice",
	"country_iso_location_code", "country_location_name", "credit", "state",
	"postal_code", "country", "phone", "email", "website", "address",
	"headline", "keywords", "source", "special_instructions", "location",
}

// field returns a pointer to the text field with the given name, or nil
func (r *ImageRecord) field(name string) *string {
	switch name {
	case "title":
		return &r.Title
	case "story":
		return &r.Story
	case "aperture":
		return &r.Aperture
	case "focal_length":
		return &r.FocalLength
	case "iso_rating":
		return &r.ISORating
	case "metering_mode":
		return &r.MeteringMode
	case "shutter_speed":
		return &r.ShutterSpeed
	case "camera_make":
		return &r.CameraMake
	case "camera_model":
		return &r.CameraModel
	case "lens_make":
		return &r.LensMake
	case "lens_model":
		return &r.LensModel
	case "owner":
		return &r.Owner
	case "artist":
		return &r.Artist
	case "software":
		return &r.Software
	case "copyright":
		return &r.Copyright
	case "camera_serial_number":
		return &r.CameraSerialNumber
	case "lens_serial_number":
		return &r.LensSerialNumber
	case "lens_specification":
		return &r.LensSpecification
	case "by_line":
		return &r.ByLine
	case "caption":
		return &r.Caption
	case "category":
		return &r.Category
	case "city":
		return &r.City
	case "copyright_notice":
		return &r.CopyrightNotice
	case "country_iso_location_code":
		return &r.CountryISOLocationCode
	case "country_location_name":
		return &r.CountryLocationName
	case "credit":
		return &r.Credit
	case "state":
		return &r.State
	case "postal_code":
		return &r.PostalCode
	case "country":
		return &r.Country
	case "phone":
		return &r.Phone
	case "email":
		return &r.Email
	case "website":
		return &r.Website
	case "address":
		return &r.Address
	case "headline":
		return &r.Headline
	case "keywords":
		return &r.Keywords
	case "source":
		return &r.Source
	case "special_instructions":
		return &r.SpecialInstructions
	case "location":
		return &r.Location
	}
	return nil
}

// Set assigns a normalized metadata value to the field with the given name.
// Names without a matching field end up in Extra.
func (r *ImageRecord) Set(name string, value any) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}

	if name == "date_time_original" {
		if t, ok := ParseTimestamp(value); ok {
			r.TakenAt = &t
		}
		return
	}

	if p := r.field(name); p != nil {
		*p = FormatValue(value)
		return
	}

	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[name] = FormatValue(value)
}

// Get returns the text value of a named field and whether the name is known
func (r *ImageRecord) Get(name string) (string, bool) {
	if name == "date_time_original" {
		if r.TakenAt == nil {
			return "", true
		}
		return r.TakenAt.Format(time.RFC3339), true
	}
	if p := r.field(name); p != nil {
		return *p, true
	}
	v, ok := r.Extra[name]
	return v, ok
}

// HasTitle reports whether the record carries a real title
func (r *ImageRecord) HasTitle() bool {
	return IsRealTitle(r.Title)
}

// IsRealTitle reports whether title is neither blank nor the placeholder
func IsRealTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t != "" && t != PlaceholderTitle
}

// CollectionNode is one node in the collection tree
type CollectionNode struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"parent_id"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
}

// IsRoot reports whether the node is the tree root
func (n CollectionNode) IsRoot() bool {
	return n.ParentID == 0
}

// User is the owner of images, rules and upload keys
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UploadKey grants a user access to the upload endpoint
type UploadKey struct {
	UserID int64  `json:"user_id"`
	Key    string `json:"key"`
}
