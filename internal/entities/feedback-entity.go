package entities

import "time"

type Feedback struct {
	ID          string    `db:"id"`
	WorkOrderID string    `db:"work_order_id"`
	UserID      string    `db:"user_id"`
	UserName    string    `db:"-"`
	Rating      int       `db:"rating"`
	Comment     *string   `db:"comment"`
	CreatedAt   time.Time `db:"created_at"`
}
