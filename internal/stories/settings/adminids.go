package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// AdminIDs — список telegram id админов из ключа telegram_admin_ids.
// В настройке хранится строка вида "123,456".
type AdminIDs []int64

// ParseAdminIDs разбирает значение настройки. Пустые элементы
// пропускаются, нечисловой элемент — ошибка.
func ParseAdminIDs(value string) (AdminIDs, error) {
	var ids AdminIDs
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (ids AdminIDs) Contains(id int64) bool {
	for _, known := range ids {
		if known == id {
			return true
		}
	}
	return false
}

// EnsureContains добавляет id, если его нет. Редактор списка всегда
// дописывает собственный id, чтобы не выписать себя из админов.
func (ids AdminIDs) EnsureContains(id int64) AdminIDs {
	if ids.Contains(id) {
		return ids
	}
	return append(ids, id)
}

func (ids AdminIDs) String() string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
