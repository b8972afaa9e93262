package sqlinline

const QListRecentAnnouncements = `--sql eb07545a-0d44-43f0-b0c6-f90448c365dd
select id, title, body, published_at
from announcements
where published_at <= now()
order by published_at desc, id desc
limit $1::int;
`
