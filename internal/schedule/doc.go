// Package schedule models, stores, and mutates schedule records.
//
// The schedule file (schedule.json) holds every record in insertion order:
//
//	{
//	  "schedules": [
//	    {
//	      "id": "1f3a9c2e",
//	      "title": "Buy milk",
//	      "status": "pending",
//	      "createdAt": "2024-06-10T12:00:00.000Z",
//	      "type": "todo"
//	    },
//	    {
//	      "id": "8b7d01aa",
//	      "title": "Dentist",
//	      "status": "done",
//	      "createdAt": "2024-06-10T12:05:00.000Z",
//	      "type": "detailed",
//	      "dateTime": "2024-06-12T09:30:00.000Z",
//	      "content": "Bring the insurance card"
//	    }
//	  ]
//	}
//
// # Record Kinds
//
//   - "todo": a plain to-do, never carries dateTime or content
//   - "detailed": an event with a UTC instant and free-text content
//
// # Status Values
//
//   - "pending": initial status
//   - "done": terminal status, there is no transition back to pending
//
// # Time Handling
//
// All instants are normalized to UTC. User input such as "2024-06-12 09:30"
// is read as UTC wall-clock time, so stored and queried instants compare
// the same way on every host regardless of its local timezone.
//
// # File Format
//
// When writing schedule files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Millisecond-precision ISO-8601 instants ending in "Z"
//
// A missing file is an empty collection. The package never writes on its
// own; callers Save after a successful mutation.
package schedule
