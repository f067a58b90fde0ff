package model

// Theatre represents a row in the `theaters` table.  A theatre owns the
// tickets sold for its screens; deleting it removes them.
type Theatre struct {
	ID       uint64 `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Location string `gorm:"not null"`
	Capacity int    `gorm:"not null"`

	Tickets []Ticket `gorm:"foreignKey:TheatreID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the historical table name.
func (Theatre) TableName() string { return "theaters" }

// TheatreFields carries the values needed to create a theatre.
type TheatreFields struct {
	Name     string
	Location string
	Capacity int
}

// TheatrePatch lists the fields a partial update may overwrite.
type TheatrePatch struct {
	Name     *string
	Location *string
	Capacity *int
}

// NewTheatre validates f and returns the theatre to insert.
func NewTheatre(f TheatreFields) (*Theatre, error) {
	if err := validateTheatreName(f.Name); err != nil {
		return nil, err
	}
	if err := validateLocation(f.Location); err != nil {
		return nil, err
	}
	if err := validateCapacity(f.Capacity); err != nil {
		return nil, err
	}
	return &Theatre{Name: f.Name, Location: f.Location, Capacity: f.Capacity}, nil
}

// Apply validates the supplied fields of p, then assigns them.
func (t *Theatre) Apply(p TheatrePatch) error {
	if p.Name != nil {
		if err := validateTheatreName(*p.Name); err != nil {
			return err
		}
	}
	if p.Location != nil {
		if err := validateLocation(*p.Location); err != nil {
			return err
		}
	}
	if p.Capacity != nil {
		if err := validateCapacity(*p.Capacity); err != nil {
			return err
		}
	}

	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.Capacity != nil {
		t.Capacity = *p.Capacity
	}
	return nil
}

func validateTheatreName(name string) error {
	if name == "" {
		return invalid("name", "Name of theatre must be provided")
	}
	return nil
}

func validateLocation(location string) error {
	if location == "" {
		return invalid("location", "Location of theatre must be provided")
	}
	return nil
}

func validateCapacity(capacity int) error {
	if capacity <= 0 {
		return invalid("capacity", "Capacity must be a positive integer")
	}
	return nil
}
