// Package cart はクライアント側カートの状態管理。
// サーバーには保存せず、注入されたStorage（localStorage相当）に
// 1キーでまるごと永続化する。
package cart

import (
	"encoding/json"
	"sync"
)

// 永続化キー（シリアライズしたカート配列を1キーに保存する）
const StorageKey = "cart"

// Storage はlocalStorage相当の永続化ポート。
// テストではメモリ実装を差し込む。
type Storage interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Remove(key string)
}

// カートの1エントリ。quantity は常に1以上。
// 価格は持たない（チェックアウト時にカタログの現在価格で計算する）。
type Item struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// 変更通知（ヘッダーのバッジとサイドバーを同期させる用途）
type Listener func(items []Item)

// Store はカート本体。商品IDごとに最大1エントリ。
type Store struct {
	mu        sync.Mutex
	items     []Item
	storage   Storage
	listeners []Listener
}

// New はStorageから保存済みカートを読み込んでStoreを作る。
// 壊れたJSONは空カート扱いにする。
func New(storage Storage) *Store {
	s := &Store{storage: storage}

	if raw, ok := storage.Get(StorageKey); ok {
		var items []Item
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, it := range items {
				//不正なエントリ（数量0以下）は読み込み時に捨てる
				if it.ProductID > 0 && it.Quantity > 0 {
					s.items = append(s.items, it)
				}
			}
		}
	}

	return s
}

// Subscribe は変更通知の購読を登録する
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Add は数量を+1する（なければ数量1で追加）
func (s *Store) Add(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			s.persistAndNotify()
			return
		}
	}

	s.items = append(s.items, Item{ProductID: productID, Quantity: 1})
	s.persistAndNotify()
}

// Remove は数量を-1する。0になったらエントリごと消す。
// （数量0のエントリは絶対に保存しない）
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if s.items[i].Quantity <= 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity--
		}
		s.persistAndNotify()
		return
	}
}

// RemoveCompletely は数量に関係なくエントリを消す
func (s *Store) RemoveCompletely(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistAndNotify()
			return
		}
	}
}

// Clear はカートを空にする（決済完了後に呼ばれる）
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistAndNotify()
}

// SetNote は商品ごとの備考を設定する
func (s *Store) SetNote(productID int64, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Note = note
			s.persistAndNotify()
			return
		}
	}
}

// QuantityOf はカートに無い商品なら0を返す
func (s *Store) QuantityOf(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// TotalItemCount は全エントリの数量合計
func (s *Store) TotalItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Items は現在のカートのコピーを返す
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// 毎回スナップショット全体を書き直してから購読者へ通知する
func (s *Store) persistAndNotify() {
	raw, err := json.Marshal(s.items)
	if err == nil {
		s.storage.Set(StorageKey, string(raw))
	}

	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}
