package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/classes"
)

func TestFlattenPreservesSeqOrderAndParaMembers(t *testing.T) {
	shape := classes.Seq(
		classes.Instr(1),
		classes.Para(classes.Instr(2), classes.Instr(3)),
		classes.Instr(4),
	)
	assert.Equal(t, []int{1, 2, 3, 4}, Flatten(shape))
}

func TestGroupsKeepsParaMembersTogether(t *testing.T) {
	shape := classes.Seq(
		classes.Instr(1),
		classes.Para(classes.Instr(2), classes.Instr(3)),
	)
	groups := Groups(shape)
	assert.Len(t, groups, 2)
	assert.Equal(t, []int{1}, groups[0].Parallel)
	assert.ElementsMatch(t, []int{2, 3}, groups[1].Parallel)
}
