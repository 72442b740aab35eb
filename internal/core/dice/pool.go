package dice

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// MaxPoolSize bounds how many dice one pool may roll.
const MaxPoolSize = 30

// Pool is one rolled pool.
type Pool struct {
	Size     int
	Rolls    []int
	Value    int
	Critical bool
}

// Degree classifies the pool.
func (p Pool) Degree() Degree {
	return DegreeFor(p.Value, p.Critical)
}

// DiceFor returns how many dice a pool of size actually rolls.
func DiceFor(size int) int {
	if size == 0 {
		return 2
	}
	return size
}

// Roll draws a pool of size dice from src. No partial pool is returned on
// error.
func Roll(size int, src Source) (Pool, error) {
	if err := checkSize(size); err != nil {
		return Pool{}, err
	}
	rolls := make([]int, DiceFor(size))
	for i := range rolls {
		v, err := src.NextDie()
		if err != nil {
			return Pool{}, fmt.Errorf("draw die %d of %d: %w", i+1, len(rolls), err)
		}
		rolls[i] = v
	}
	return Evaluate(size, rolls)
}

// Evaluate builds the pool a size would produce from already rolled faces.
func Evaluate(size int, rolls []int) (Pool, error) {
	if err := checkSize(size); err != nil {
		return Pool{}, err
	}
	if len(rolls) != DiceFor(size) {
		return Pool{}, apperrors.WithMetadata(apperrors.CodeDiceInvalidSpec,
			fmt.Sprintf("pool of %d needs %d dice, got %d", size, DiceFor(size), len(rolls)),
			map[string]string{"Spec": fmt.Sprintf("%d dice for pool %d", len(rolls), size)})
	}
	for _, v := range rolls {
		if err := checkFace(v); err != nil {
			return Pool{}, err
		}
	}

	pool := Pool{Size: size, Rolls: append([]int(nil), rolls...)}
	if size == 0 {
		pool.Value = min(rolls[0], rolls[1])
		return pool, nil
	}

	sixes := 0
	for _, v := range rolls {
		pool.Value = max(pool.Value, v)
		if v == Sides {
			sixes++
		}
	}
	pool.Critical = sixes >= 2
	return pool, nil
}

func checkSize(size int) error {
	if size < 0 {
		return apperrors.WithMetadata(apperrors.CodeDiceInvalidPoolSize,
			"dice pool size "+strconv.Itoa(size)+" is negative",
			map[string]string{"Size": strconv.Itoa(size)})
	}
	if size > MaxPoolSize {
		return apperrors.WithMetadata(apperrors.CodeDicePoolTooBig,
			"dice pool size "+strconv.Itoa(size)+" is above "+strconv.Itoa(MaxPoolSize),
			map[string]string{"Size": strconv.Itoa(size), "Max": strconv.Itoa(MaxPoolSize)})
	}
	return nil
}
