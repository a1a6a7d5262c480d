package types

// UpsertResult describes the outcome of an attendance ledger upsert
type UpsertResult string

const (
	// UpsertCreated: no record existed for the natural key
	UpsertCreated UpsertResult = "CREATED"
	// UpsertUpdated: a record existed with a different status
	UpsertUpdated UpsertResult = "UPDATED"
	// UpsertUnchanged: the stored status already matched; no write issued
	UpsertUnchanged UpsertResult = "UNCHANGED"
)

// String returns the string representation of the upsert result
func (r UpsertResult) String() string {
	return string(r)
}
