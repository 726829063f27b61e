package domain

// Department is static reference data.
type Department struct {
	ID   int64
	Name string
}
