package booking

import "time"

// Time layouts used by the scheduling fields.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// PaymentType distinguishes how a booking is paid.
type PaymentType string

const (
	PaymentCash    PaymentType = "cash"
	PaymentPrepaid PaymentType = "prepaid"
)

// IsValid returns true if the payment type is recognized.
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentCash, PaymentPrepaid:
		return true
	}
	return false
}

// Role identifies which side of the marketplace is acting.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Booking is a scheduled service engagement between a customer and a provider.
//
// The backend owns the lifecycle; clients hold copies that are refreshed from
// snapshots and patched optimistically after successful actions.
type Booking struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	ProviderID   int64       `json:"provider_id"`
	ServiceID    int64       `json:"service_id"`
	ServiceTitle string      `json:"service_title,omitempty"`
	Status       Status      `json:"status"`
	PaymentType  PaymentType `json:"payment_type"`
	Date         string      `json:"date"`
	StartTime    string      `json:"start_time"`
	AmountCents  int64       `json:"amount_cents"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Bucket is the client-side grouping category for bookings. It is derived
// from, but not identical to, the booking status: the snapshot's grouping is
// backend-owned, the bucket mapping below is a presentation convenience.
type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketPending   Bucket = "pending"
	BucketCompleted Bucket = "completed"
	BucketCancelled Bucket = "cancelled"
	BucketRejected  Bucket = "rejected"
)

// Buckets returns all buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketUpcoming, BucketPending, BucketCompleted, BucketCancelled, BucketRejected}
}

// BucketFor maps a status to the bucket an optimistically patched booking is
// re-inserted into. Statuses without an explicit mapping land in upcoming.
// Both cancelled spellings map to the cancelled bucket: decoded payloads
// bypass ParseStatus and can still carry the legacy form.
func BucketFor(status Status) Bucket {
	switch status {
	case StatusPending, StatusConfirmed:
		return BucketPending
	case StatusCompleted:
		return BucketCompleted
	case StatusCancelled, canceledAlias:
		return BucketCancelled
	case StatusRejected:
		return BucketRejected
	default:
		return BucketUpcoming
	}
}

// Grouped is the bucketed booking snapshot served by the platform.
type Grouped struct {
	Upcoming  []Booking `json:"upcoming"`
	Pending   []Booking `json:"pending"`
	Completed []Booking `json:"completed"`
	Cancelled []Booking `json:"cancelled"`
	Rejected  []Booking `json:"rejected"`
	Count     int       `json:"count"`
	Next      string    `json:"next,omitempty"`
	Previous  string    `json:"previous,omitempty"`
}

// Normalize replaces nil bucket slices with empty ones. Older backends omit
// the cancelled and rejected keys entirely when those buckets are empty.
func (g *Grouped) Normalize() {
	if g.Upcoming == nil {
		g.Upcoming = []Booking{}
	}
	if g.Pending == nil {
		g.Pending = []Booking{}
	}
	if g.Completed == nil {
		g.Completed = []Booking{}
	}
	if g.Cancelled == nil {
		g.Cancelled = []Booking{}
	}
	if g.Rejected == nil {
		g.Rejected = []Booking{}
	}
}

// Bucket returns the slice for the given bucket. Unknown buckets return nil.
func (g *Grouped) Bucket(b Bucket) []Booking {
	switch b {
	case BucketUpcoming:
		return g.Upcoming
	case BucketPending:
		return g.Pending
	case BucketCompleted:
		return g.Completed
	case BucketCancelled:
		return g.Cancelled
	case BucketRejected:
		return g.Rejected
	default:
		return nil
	}
}

// setBucket replaces the slice for the given bucket.
func (g *Grouped) setBucket(b Bucket, items []Booking) {
	switch b {
	case BucketUpcoming:
		g.Upcoming = items
	case BucketPending:
		g.Pending = items
	case BucketCompleted:
		g.Completed = items
	case BucketCancelled:
		g.Cancelled = items
	case BucketRejected:
		g.Rejected = items
	}
}

// Find returns the booking with the given id and the bucket holding it.
func (g *Grouped) Find(id int64) (Booking, Bucket, bool) {
	for _, b := range Buckets() {
		for _, bk := range g.Bucket(b) {
			if bk.ID == id {
				return bk, b, true
			}
		}
	}
	return Booking{}, "", false
}

// Remove deletes the booking with the given id from every bucket and reports
// whether anything was removed. A booking id exists in at most one bucket,
// but removal sweeps all of them so a duplicate introduced by a racing
// snapshot cannot survive a patch.
func (g *Grouped) Remove(id int64) bool {
	removed := false
	for _, b := range Buckets() {
		items := g.Bucket(b)
		kept := items[:0]
		for _, bk := range items {
			if bk.ID == id {
				removed = true
				continue
			}
			kept = append(kept, bk)
		}
		g.setBucket(b, kept)
	}
	return removed
}

// Insert prepends the booking to the bucket implied by its status.
func (g *Grouped) Insert(bk Booking) {
	bucket := BucketFor(bk.Status)
	g.setBucket(bucket, append([]Booking{bk}, g.Bucket(bucket)...))
}

// Clone returns a deep copy of the grouped snapshot.
func (g *Grouped) Clone() Grouped {
	out := *g
	out.Upcoming = append([]Booking(nil), g.Upcoming...)
	out.Pending = append([]Booking(nil), g.Pending...)
	out.Completed = append([]Booking(nil), g.Completed...)
	out.Cancelled = append([]Booking(nil), g.Cancelled...)
	out.Rejected = append([]Booking(nil), g.Rejected...)
	return out
}
