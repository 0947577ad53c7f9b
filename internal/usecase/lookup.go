package usecase

import "context"

// 見つからない/取れないときはdefを返す結合。エラーは表に出さない。
func lookupOrDefault[T any](
	ctx context.Context,
	find func(ctx context.Context, key string) (T, error),
	key string,
	pick func(T) string,
	def string,
) string {
	if key == "" {
		return def
	}
	v, err := find(ctx, key)
	if err != nil {
		return def
	}
	return pick(v)
}
