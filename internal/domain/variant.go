package domain

// Variant identifies one of the tracked media kinds. Each variant is stored in
// its own collection and has its own status vocabulary.
type Variant string

const (
	VariantMovie  Variant = "movie"
	VariantTvShow Variant = "tv-show"
	VariantGame   Variant = "game"
)

// AllVariants contains all tracked media kinds in routing order
var AllVariants = []Variant{VariantMovie, VariantTvShow, VariantGame}

// IsValid checks if a variant is known
func (v Variant) IsValid() bool {
	switch v {
	case VariantMovie, VariantTvShow, VariantGame:
		return true
	}
	return false
}

func (v Variant) String() string {
	return string(v)
}

// DisplayName is used in user-facing messages ("Tv Show already exists.")
func (v Variant) DisplayName() string {
	switch v {
	case VariantMovie:
		return "Movie"
	case VariantTvShow:
		return "Tv Show"
	case VariantGame:
		return "Game"
	default:
		return string(v)
	}
}

// PluralDisplayName is used in list messages ("Tv Shows retrieved successfully.")
func (v Variant) PluralDisplayName() string {
	return v.DisplayName() + "s"
}

// ItemKey is the JSON key wrapping a single item in responses.
func (v Variant) ItemKey() string {
	switch v {
	case VariantTvShow:
		return "tvShow"
	default:
		return string(v)
	}
}

// ListKey is the JSON key wrapping a list of items, and also the key of the
// reference list on the user view.
func (v Variant) ListKey() string {
	return v.ItemKey() + "s"
}

// CatalogIDKey is the JSON key holding the external catalog identifier.
func (v Variant) CatalogIDKey() string {
	return v.ItemKey() + "ID"
}

// ListPath is the route segment for listing ("movies", "tv-shows", "games").
func (v Variant) ListPath() string {
	return string(v) + "s"
}

// Statuses returns the closed status vocabulary of the variant.
func (v Variant) Statuses() []Status {
	switch v {
	case VariantMovie, VariantTvShow:
		return []Status{StatusPlanToWatch, StatusWatching, StatusCompleted, StatusDropped}
	case VariantGame:
		return []Status{StatusPlanToPlay, StatusPlaying, StatusFinished, StatusDropped}
	}
	return nil
}

// AllowsStatus reports whether s belongs to the variant's vocabulary.
func (v Variant) AllowsStatus(s Status) bool {
	for _, allowed := range v.Statuses() {
		if s == allowed {
			return true
		}
	}
	return false
}

// Status is the user's progress on a tracked item
type Status string

const (
	StatusPlanToWatch Status = "plan to watch"
	StatusWatching    Status = "watching"
	StatusCompleted   Status = "completed"
	StatusPlanToPlay  Status = "plan to play"
	StatusPlaying     Status = "playing"
	StatusFinished    Status = "finished"
	StatusDropped     Status = "dropped"
)
