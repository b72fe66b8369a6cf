package overseerr

// RequestStatus is the approval state of a request
type RequestStatus int

const (
	RequestStatusUnknown RequestStatus = iota
	RequestStatusPending
	RequestStatusApproved
	RequestStatusDeclined
)

// String returns the string representation of a RequestStatus
func (rs RequestStatus) String() string {
	switch rs {
	case RequestStatusPending:
		return "PENDING"
	case RequestStatusApproved:
		return "APPROVED"
	case RequestStatusDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// MediaStatus is the library state of a movie
type MediaStatus int

const (
	// MediaStatusNone means Overseerr has never seen the movie
	MediaStatusNone MediaStatus = iota
	MediaStatusUnknown
	MediaStatusPending
	MediaStatusProcessing
	MediaStatusPartiallyAvailable
	MediaStatusAvailable
)

// String returns the string representation of a MediaStatus
func (ms MediaStatus) String() string {
	switch ms {
	case MediaStatusPending:
		return "PENDING"
	case MediaStatusProcessing:
		return "PROCESSING"
	case MediaStatusPartiallyAvailable:
		return "PARTIALLY_AVAILABLE"
	case MediaStatusAvailable:
		return "AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Requested reports whether the movie is already requested or in the library
func (ms MediaStatus) Requested() bool {
	return ms >= MediaStatusPending
}

// MediaType represents the type of media
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// User represents an Overseerr user
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// MediaInfo is Overseerr's record of a movie it tracks
type MediaInfo struct {
	ID     int         `json:"id"`
	TmdbID int         `json:"tmdbId"`
	Status MediaStatus `json:"status"`
}

type movieResponse struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	MediaInfo *MediaInfo `json:"mediaInfo,omitempty"`
}

type requestBody struct {
	MediaType MediaType `json:"mediaType"`
	MediaID   int       `json:"mediaId"`
}

// MediaRequest is a request as returned by the API
type MediaRequest struct {
	ID          int           `json:"id"`
	Status      RequestStatus `json:"status"`
	Type        MediaType     `json:"type"`
	Media       MediaInfo     `json:"media"`
	RequestedBy User          `json:"requestedBy"`
}

// RequestResult describes what RequestMovie did
type RequestResult struct {
	RequestID int
	Status    RequestStatus
	// MediaStatus is the state found before requesting
	MediaStatus MediaStatus
	Existed     bool
}
