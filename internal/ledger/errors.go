package ledger

import "errors"

// Precondition errors are raised before any state change; the user-facing
// messages match what the dashboard shows.
var (
	ErrProductNotFound   = errors.New("商品不存在")
	ErrProductNotInbound = errors.New("商品不存在，请先在基础数据中添加该商品")
	ErrInsufficientStock = errors.New("库存不足，无法出库")
)
