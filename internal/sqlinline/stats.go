package sqlinline

const QStatsSummary = `--sql a40776b8-4e9f-4612-9285-e93d7ce692d3
select
  (select count(*) from cases)                                            as total_cases,
  (select count(*) from cases where lifecycle_stage like 'closed_%')      as closed_cases,
  (select count(*) from donations where status = 'completed')             as completed_donations,
  (select coalesce(sum(amount_int), 0) from donations
     where status = 'completed')                                          as donated_total,
  (select count(*) from adoptions where status = 'completed')             as completed_adoptions,
  (select count(*) from donations
     where status = 'completed' and created_at > now() - interval '24 hours') as donations_last24;
`
