package sqlinline

const QListAchievementsByUser = `--sql 3f193b02-6bea-432b-95ae-e07dc4246717
select id, user_id, type, unlocked_at
from achievements
where user_id = $1::uuid
order by unlocked_at desc, id desc
limit $2::int;
`
