package manager

import (
	"snake-arcade/game/entity"
	"snake-arcade/game/types"
)

type CollisionManager struct {
	board types.Board
}

func NewCollisionManager(board types.Board) *CollisionManager {
	return &CollisionManager{
		board: board,
	}
}

// CheckMove classifies a candidate head against the body as it was before
// the move. Checks run wall, self, fill in that order and the first hit wins.
func (cm *CollisionManager) CheckMove(next types.Cell, snake *entity.Snake) types.Reason {
	if cm.isWallCollision(next) {
		return types.HitWall
	}

	// The tail still counts: it has not been popped yet.
	if snake.Contains(next) {
		return types.HitSelf
	}

	if cm.IsFull(snake) {
		return types.Filled
	}

	return types.NoReason
}

// IsFull reports whether the body covers every cell.
func (cm *CollisionManager) IsFull(snake *entity.Snake) bool {
	return snake.Len() == cm.board.Area()
}

// isWallCollision checks if a position lies off the board
func (cm *CollisionManager) isWallCollision(pos types.Cell) bool {
	return !cm.board.Contains(pos)
}

// IsFoodCollision checks if a position holds food
func (cm *CollisionManager) IsFoodCollision(pos types.Cell, food *FoodManager) bool {
	return food.Contains(pos)
}
