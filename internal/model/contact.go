package model

import (
	"gorm.io/gorm"
)

// Contact 联系人关系，(owner, target) 有向边
// blocked 标志在所有涉及联系人的可见性判断中生效
type Contact struct {
	gorm.Model
	OwnerUuid  string `gorm:"column:owner_uuid;index:idx_contact_pair,unique;type:char(20);not null;comment:关系所有者uuid"`
	TargetUuid string `gorm:"column:target_uuid;index:idx_contact_pair,unique;type:char(20);not null;comment:联系人uuid"`
	Nickname   string `gorm:"column:nickname;type:varchar(100);comment:备注名"`
	Blocked    bool   `gorm:"column:blocked;not null;default:false;comment:是否拉黑"`
}

func (Contact) TableName() string {
	return "contact"
}
