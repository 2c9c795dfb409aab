// Package task defines the task record, its status and deadline types, and
// the persisted task document.
//
// The persisted document is a JSON array of task records:
//
//	[
//	  {
//	    "id": "0b7c5d0e-8f7c-4b8e-9c6a-3f1f2b6d9a10",
//	    "title": "Buy milk",
//	    "summary": "",
//	    "status": "Not done",
//	    "deadline": "2024-01-01"
//	  }
//	]
//
// # Status Values
//
//   - "Not done": Task has not been started (default for new tasks)
//   - "In Progress": Task is being worked on
//   - "Done": Task is complete
//
// # Deadlines
//
// A deadline is a calendar date written as YYYY-MM-DD. The empty string means
// the task has no deadline.
//
// # Identifiers
//
// Every task carries a generated id. Documents written before ids existed
// still decode; records without an id are assigned one while decoding.
//
// # Validation
//
// Documents are checked against an embedded JSON Schema (draft 2020-12). An
// external schema file can be supplied instead with LoadSchema.
package task
