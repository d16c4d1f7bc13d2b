package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("not found")

	// Входные данные не прошли проверку
	ErrValidationFailed = errors.New("validation failed")

	// Операция недопустима в текущем состоянии лиги
	ErrPreconditionFailed = errors.New("precondition failed")

	// Конкурирующая запись уже выполнила то же действие
	ErrConflict = errors.New("conflicting write")

	// Ошибки, специфичные для сущностей
	ErrLeagueNotFound = fmt.Errorf("league %w", ErrNotFound)
	ErrGameNotFound   = fmt.Errorf("game %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)

	ErrCycleNotFinished = fmt.Errorf("%w: current cycle has games without outcomes", ErrPreconditionFailed)
	ErrStorageDisabled  = errors.New("avatar storage is not configured")
)
