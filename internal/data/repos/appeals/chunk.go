package appeals

// inChunkSize bounds IN (...) lists below driver parameter limits.
const inChunkSize = 500

func forChunks(keys []string, fn func(chunk []string) error) error {
	for start := 0; start < len(keys); start += inChunkSize {
		end := start + inChunkSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := fn(keys[start:end]); err != nil {
			return err
		}
	}
	return nil
}
