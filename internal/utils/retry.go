package utils

// RetryUntil calls fn up to maxTries times until it reports an accepted
// candidate. A non-nil error from fn stops the loop immediately and is
// returned as is; rejection is signalled with ok == false.
// If maxTries <= 0, it defaults to 1.
func RetryUntil[T any](maxTries int, fn func() (T, bool, error)) (T, bool, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var zero T
	for i := 0; i < maxTries; i++ {
		candidate, ok, err := fn()
		if err != nil {
			return zero, false, err
		}
		if ok {
			return candidate, true, nil
		}
	}
	return zero, false, nil
}
