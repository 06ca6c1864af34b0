package entity

const DefaultVideoColor = "#0070f3"

type Video struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	StartDate   string `json:"startDate"`
}

// VideoPatch carries the mutable fields of a tracked video; nil fields are left alone.
type VideoPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Video list sources.
const (
	VideoSourceUser     = "user"
	VideoSourceDefault  = "default"
	VideoSourceFallback = "fallback"
)

type VideoList struct {
	Videos []Video `json:"videos"`
	Source string  `json:"source"`
}

func (l VideoList) IDs() []string {
	ids := make([]string, 0, len(l.Videos))
	for _, v := range l.Videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func (l VideoList) Find(id string) (Video, bool) {
	for _, v := range l.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}
