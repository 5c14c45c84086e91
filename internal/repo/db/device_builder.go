package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type deviceListQuery struct {
	countQ    string
	countArgs []any
	dataQ     string
	dataArgs  []any
}

func buildDeviceListQuery(
	ctx context.Context,
	page, size int,
	filters map[string]any,
) (deviceListQuery, error) {
	const op = "devices.buildDeviceListQuery.repo"

	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	query := sq.Select().From("devices d").PlaceholderFormat(sq.Dollar)

	if isOnline, ok := filters["is_online"].(bool); ok {
		query = query.Where(sq.Eq{"d.is_online": isOnline})
	}

	if agentEnabled, ok := filters["agent_enabled"].(bool); ok {
		query = query.Where(sq.Eq{"d.agent_enabled": agentEnabled})
	}

	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where(sq.ILike{"d.name": "%" + name + "%"})
	}

	countSql, countArgs, err := query.Columns("COUNT(DISTINCT d.id)").ToSql()
	if err != nil {
		span.SetTag("error", true)
		zap.L().Error("failed to build count query", zap.String("op", op), zap.Error(err))
		return deviceListQuery{}, err
	}

	dataSql, dataArgs, err := query.
		Columns(
			"d.id",
			"d.name",
			"d.mac_address",
			"d.ip_address",
			"d.broadcast_addr",
			"d.icon",
			"d.agent_enabled",
			"d.is_online",
			"d.last_seen_at",
			"d.created_at",
			"d.updated_at",
		).
		OrderBy("d.name ASC").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		span.SetTag("error", true)
		zap.L().Error("failed to build data query", zap.String("op", op), zap.Error(err))
		return deviceListQuery{}, err
	}

	return deviceListQuery{
		countQ:    countSql,
		countArgs: countArgs,
		dataQ:     dataSql,
		dataArgs:  dataArgs,
	}, nil
}
