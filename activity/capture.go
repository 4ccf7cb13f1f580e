package activity

// Capture runs fn and, if it fails, surfaces the error on the timer's
// status line before returning it. The error itself is never swallowed.
func Capture(t *Timer, fn func() error) error {
	err := fn()
	if err != nil && t != nil {
		t.SetStatus("❌ " + err.Error())
	}
	return err
}
