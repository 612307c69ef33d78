// Package mysql 提供数据访问层的初始化和全局数据库实例管理
// 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"wave_chat_server/internal/config"
	"wave_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 初始化数据库连接并返回 Repository 层实例
// 执行步骤：
//  1. 从配置读取 MySQL 连接信息并构建 DSN
//  2. 使用 GORM 建立数据库连接
//  3. 执行 AutoMigrate 自动迁移表结构
//  4. 创建并返回 Repository 实例
func Init() *Repositories {
	conf := config.GetConfig()

	// 构建 MySQL DSN 连接字符串
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	// TranslateError 将驱动错误映射为 gorm.ErrDuplicatedKey 等语义错误
	// 唯一索引冲突的识别依赖这一选项
	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate 自动迁移表结构
	// 如果表不存在则创建，如果字段变更则更新结构，不删除已有字段或数据
	err = db.AutoMigrate(
		&model.UserInfo{},        // 用户信息表
		&model.Contact{},         // 联系人表
		&model.Invitation{},      // 邀请表
		&model.InvitationUsage{}, // 邀请使用记录表
		&model.QRCodeSession{},   // 二维码扫描记录表
		&model.Room{},            // 房间表
		&model.RoomParticipant{}, // 房间成员表
		&model.Message{},         // 消息表
		&model.MessageStatus{},   // 消息状态表
		&model.StatusUpdate{},    // 动态表
		&model.StatusViewer{},    // 动态白名单表
		&model.StatusView{},      // 动态浏览记录表
		&model.StatusReaction{},  // 动态表态表
		&model.VideoCall{},       // 通话表
		&model.CallParticipant{}, // 通话参与者表
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return NewRepositories(db)
}
