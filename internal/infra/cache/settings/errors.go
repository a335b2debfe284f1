package settings

import "errors"

var (
	// ErrCacheMiss в кеше нет настроек попапа
	ErrCacheMiss = errors.New("settings.cache: cache miss")

	// ErrCache ошибка работы с хранилищем кеша
	ErrCache = errors.New("settings.cache: storage error")
)
