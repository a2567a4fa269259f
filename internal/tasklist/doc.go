// Package tasklist holds the task list state: the ordered tasks, the derived
// completed and uncompleted views, the validator for new titles, and the
// bridge that writes the whole list to a store.KV after every change.
//
// All mutations go through one commit step, so persistence never depends on
// each operation remembering to save:
//
//	s, err := tasklist.Open(kv, tasklist.WithLogger(logger))
//	t, err := s.Add("Buy milk")
//	_, err = s.MarkCompleted(t.ID)
//	_, err = s.Remove(t.ID)
//
// A failed write is logged and remembered (see Store.Err); the in-memory
// list keeps the change.
package tasklist
