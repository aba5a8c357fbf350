package mysql

const insertUserSQL = `
INSERT INTO users
  (username, email, password_hash, role, user_type, pref_language, pref_theme, pref_notifications, is_system, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const userColumns = `
  id, username, email, password_hash, role, user_type,
  pref_language, pref_theme, pref_notifications, is_system, is_active,
  created_at, updated_at
`

const insertProductSQL = `
INSERT INTO products
  (name, category, description, price, brand, image, features, specifications, badges,
   system_recommended, is_system_created, target_audience, educational_use, accessibility,
   use_case, added_by, approved)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const productColumns = `
  id, name, category, description, price, brand, image, features, specifications, badges,
  rating, review_count, system_recommended, is_system_created, target_audience,
  educational_use, accessibility, use_case, added_by, approved, created_at, updated_at
`

// Whitelisted mutable columns only: rating/review_count stay with the
// aggregator, approved and the system flags stay with creation.
const updateProductSQL = `
UPDATE products SET
  name = ?, category = ?, description = ?, price = ?, brand = ?, image = ?,
  features = ?, specifications = ?, badges = ?, target_audience = ?,
  educational_use = ?, accessibility = ?, use_case = ?
WHERE id = ?
`

const insertReviewSQL = `
INSERT INTO reviews
  (product_id, user_id, rating, title, comment, pros, cons, user_type, role, use_case, verified, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateReviewSQL = `
UPDATE reviews SET
  rating = ?, title = ?, comment = ?, pros = ?, cons = ?,
  user_type = ?, role = ?, use_case = ?, images = ?
WHERE id = ?
`

// reviewColumns joins the author and derives the helpful-vote count; the
// reviews table itself never stores the count.
const reviewColumns = `
  r.id, r.product_id, r.user_id, r.rating, r.title, r.comment, r.pros, r.cons,
  r.user_type, r.role, r.use_case, r.verified, r.images, r.created_at, r.updated_at,
  u.username,
  (SELECT COUNT(*) FROM helpful_votes hv WHERE hv.review_id = r.id) AS helpful
`

// recomputeRatingSQL is the whole rating aggregator: one statement sets the
// product's derived fields from the review set as of the surrounding
// transaction. The LEFT JOIN makes the empty set collapse to 0/0, and a
// vanished product simply matches zero rows.
const recomputeRatingSQL = `
UPDATE products p
LEFT JOIN (
  SELECT product_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
  FROM reviews
  WHERE product_id = ?
  GROUP BY product_id
) agg ON agg.product_id = p.id
SET p.rating       = COALESCE(agg.avg_rating, 0),
    p.review_count = COALESCE(agg.review_count, 0)
WHERE p.id = ?
`

const deleteVoteSQL = `DELETE FROM helpful_votes WHERE review_id = ? AND user_id = ?`

const insertVoteSQL = `INSERT IGNORE INTO helpful_votes (review_id, user_id) VALUES (?, ?)`

const countVotesSQL = `SELECT COUNT(*) FROM helpful_votes WHERE review_id = ?`
