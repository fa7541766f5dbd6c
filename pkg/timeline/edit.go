package timeline

import (
	"fmt"

	"github.com/storyreel/storyreel/pkg/models"
)

// The edit functions never modify their input; each returns a new list
// suitable for SetScenes.

// Append returns scenes with s added at the end.
func Append(scenes []models.Scene, s models.Scene) []models.Scene {
	ret := make([]models.Scene, 0, len(scenes)+1)
	ret = append(ret, scenes...)
	return append(ret, s)
}

// Insert returns scenes with s inserted at index. The index is clamped to
// [0, len(scenes)].
func Insert(scenes []models.Scene, index int, s models.Scene) []models.Scene {
	index = clamp(index, 0, len(scenes))

	ret := make([]models.Scene, 0, len(scenes)+1)
	ret = append(ret, scenes[:index]...)
	ret = append(ret, s)
	return append(ret, scenes[index:]...)
}

// Remove returns scenes without the scene at index.
func Remove(scenes []models.Scene, index int) ([]models.Scene, error) {
	if index < 0 || index >= len(scenes) {
		return nil, fmt.Errorf("remove index %d of %d: %w", index, len(scenes), ErrIndexOutOfRange)
	}

	ret := make([]models.Scene, 0, len(scenes)-1)
	ret = append(ret, scenes[:index]...)
	return append(ret, scenes[index+1:]...), nil
}

// Move returns scenes with the scene at from moved to to. Both indexes are
// clamped to the list.
func Move(scenes []models.Scene, from, to int) []models.Scene {
	ret := make([]models.Scene, len(scenes))
	copy(ret, scenes)

	if len(ret) == 0 {
		return ret
	}

	from = clamp(from, 0, len(ret)-1)
	to = clamp(to, 0, len(ret)-1)
	if from == to {
		return ret
	}

	moved := ret[from]
	delta := 1
	if to < from {
		delta = -1
	}
	for i := from; i != to; i += delta {
		ret[i] = ret[i+delta]
	}
	ret[to] = moved

	return ret
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
