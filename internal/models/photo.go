package models

// PhotoInfo holds the metadata extracted from one photo file. Every field
// except Filename is optional; absent GPS data routes the photo to the
// no-coordinate bucket without reaching the resolver.
type PhotoInfo struct {
	Filename    string       // Base name of the photo file.
	Coordinates *Coordinates // GPS position, nil when the EXIF data has none.
	TakenAt     string       // Capture timestamp as recorded by the camera.
	Make        string       // Camera manufacturer.
	Model       string       // Camera model.
}

// Bucket names the classification outcome for one photo.
type Bucket string

// Classification buckets.
const (
	// BucketMatched means the photo landed inside a known region path.
	BucketMatched Bucket = "matched"
	// BucketNoGPS means coordinate extraction produced no position.
	BucketNoGPS Bucket = "no_gps"
	// BucketUnmatched means the resolver found no region for the position.
	BucketUnmatched Bucket = "unmatched"
)

// Placement is the directory decision for one photo: either a region path of
// depth 1-3 (coarsest first) or one of the two sentinel buckets.
type Placement struct {
	Photo  PhotoInfo
	Bucket Bucket
	Path   []string // Region names, district first; empty for sentinel buckets.
}
